package badgerdb

import (
	"fmt"
	"strings"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog"
)

// Open opens the Badger database at path, creating the directory if it does
// not exist. It is up to the caller to close the database with Close().
func Open(path string, logger zerolog.Logger) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{logger})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db at %s: %w", path, err)
	}
	return db, nil
}

// badgerLogger adapts zerolog to badger.Logger so storage-engine chatter
// lands in the same structured stream as the rest of the service.
type badgerLogger struct {
	l zerolog.Logger
}

func (b badgerLogger) Errorf(format string, args ...interface{}) {
	b.l.Error().Msgf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Warningf(format string, args ...interface{}) {
	b.l.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Infof(format string, args ...interface{}) {
	b.l.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (b badgerLogger) Debugf(format string, args ...interface{}) {
	b.l.Debug().Msgf(strings.TrimSpace(format), args...)
}
