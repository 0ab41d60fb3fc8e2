package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tablecheck/pkg/file"
	"github.com/dmitrymomot/tablecheck/pkg/logger"
	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// Artifact names written under a run directory.
const (
	ValidatedFile = "validated.csv"
	SummaryFile   = "summary.json"
	ErrorsFile    = "errors.json"
)

// Publisher stores run artifacts under <prefix>/<run id>/.
type Publisher struct {
	storage file.Storage
	schema  string
	prefix  string
	log     *slog.Logger
}

type PublisherOption func(*Publisher)

// WithPrefix sets the key prefix. The default is "runs".
func WithPrefix(prefix string) PublisherOption {
	return func(p *Publisher) { p.prefix = prefix }
}

func WithLogger(log *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.log = log }
}

// NewPublisher creates a publisher for outcomes of the named schema.
func NewPublisher(storage file.Storage, schema string, opts ...PublisherOption) (*Publisher, error) {
	if storage == nil {
		return nil, ErrNilStorage
	}
	p := &Publisher{
		storage: storage,
		schema:  schema,
		prefix:  "runs",
		log:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Publish stores validated.csv and summary.json for a successful outcome or
// errors.json for a failed one. It returns the stored objects.
func (p *Publisher) Publish(ctx context.Context, runID uuid.UUID, out validator.Outcome) ([]file.Object, error) {
	dir := path.Join(p.prefix, runID.String())

	var artifacts []artifact
	if out.Success {
		var csvBuf bytes.Buffer
		if err := WriteCSV(&csvBuf, out.Table); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact{name: ValidatedFile, body: csvBuf.Bytes()})

		if out.Summary != nil {
			data, err := json.MarshalIndent(out.Summary, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrFailedToWriteJSON, err)
			}
			artifacts = append(artifacts, artifact{name: SummaryFile, body: data})
		}
	} else {
		errLog := NewErrorLog(out, p.schema)
		errLog.RunID = runID

		var buf bytes.Buffer
		if err := errLog.WriteJSON(&buf); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact{name: ErrorsFile, body: buf.Bytes()})
	}

	objects := make([]file.Object, 0, len(artifacts))
	for _, a := range artifacts {
		key := path.Join(dir, a.name)
		obj, err := p.storage.Put(ctx, key, bytes.NewReader(a.body), file.ContentType(a.name))
		if err != nil {
			p.log.ErrorContext(ctx, "failed to publish artifact",
				logger.RunID(runID.String()),
				logger.Path(key),
				logger.Error(err),
			)
			return objects, fmt.Errorf("%w: %s: %w", ErrFailedToPublish, key, err)
		}
		p.log.InfoContext(ctx, "artifact published",
			logger.RunID(runID.String()),
			logger.Path(obj.Key),
			slog.String("url", obj.URL),
		)
		objects = append(objects, *obj)
	}

	return objects, nil
}

type artifact struct {
	name string
	body []byte
}
