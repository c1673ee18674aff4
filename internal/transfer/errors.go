package transfer

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedEnvelope means the payload is not a structured export at all.
var ErrMalformedEnvelope = errors.New("malformed export file")

// UnsupportedFormatVersionError rejects payloads written by a newer build.
// Version saturates at math.MaxInt; Raw keeps the value as written.
type UnsupportedFormatVersionError struct {
	Version   int
	Supported int
	Raw       string
}

func (e *UnsupportedFormatVersionError) Error() string {
	version := e.Raw
	if version == "" {
		version = strconv.Itoa(e.Version)
	}
	return fmt.Sprintf("export format version %s is newer than the supported version %d; upgrade to import it",
		version, e.Supported)
}
