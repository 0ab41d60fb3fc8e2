package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return Group("errors", as...)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Schema records the schema name under "schema".
func Schema(name string) slog.Attr {
	return slog.String("schema", name)
}

// RunID records the validation run identifier under "run_id". An empty id
// yields an empty Attr.
func RunID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("run_id", id)
}

// Rows records a row count under "rows".
func Rows(n int) slog.Attr {
	return slog.Int("rows", n)
}

// Violations records a violation count under "violations".
func Violations(n int) slog.Attr {
	return slog.Int("violations", n)
}

func Column(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("column", name)
}

// Row records a row index under "row". Negative indices yield an empty Attr.
func Row(i int) slog.Attr {
	if i < 0 {
		return slog.Attr{}
	}
	return slog.Int("row", i)
}

func Kind(kind string) slog.Attr {
	return slog.String("kind", kind)
}

func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// RequestID records the HTTP request identifier under "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}
