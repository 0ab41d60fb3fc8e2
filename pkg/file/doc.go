// Package file stores validation run artifacts behind a single Storage
// interface.
//
// Two backends are provided:
//   - LocalStorage keeps objects as files under a base directory.
//   - S3Storage keeps them in an S3 bucket or an S3-compatible service
//     such as MinIO.
//
// Keys are slash separated and normalized by CleanKey. Keys that try to
// escape the storage root are rejected with ErrInvalidPath.
//
// # Usage
//
//	store, err := file.NewLocalStorage("./out", "")
//	if err != nil {
//		return err
//	}
//	obj, err := store.Put(ctx, "runs/42/errors.json", body, "")
//	if err != nil {
//		return err
//	}
//	fmt.Println(obj.URL)
//
// For S3:
//
//	store, err := file.NewS3Storage(ctx, file.S3Config{
//		Bucket: "tablecheck",
//		Region: "eu-west-1",
//	})
//
// # Errors
//
// Backend failures are mapped onto the sentinels in errors.go, so callers
// can branch with errors.Is regardless of the backend:
//
//	if errors.Is(err, file.ErrFileNotFound) {
//		// ...
//	}
package file
