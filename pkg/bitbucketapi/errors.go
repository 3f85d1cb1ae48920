package bitbucketapi

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// APIError is returned for any non-2xx Bitbucket response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Request failed with status code %d", e.StatusCode)
	}
	return fmt.Sprintf("Request failed with status code %d: %s", e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status from an *APIError in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// errorMessage pulls error.message (and error.detail) out of a Bitbucket error envelope:
//
//	{"type": "error", "error": {"message": "...", "detail": "..."}}
func errorMessage(body []byte) string {
	var message, detail string
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return ""
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "error" || d.Next() != jx.Object {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "message":
				return readString(d, &message)
			case "detail":
				return readString(d, &detail)
			default:
				return d.Skip()
			}
		})
	})
	if err != nil {
		return ""
	}
	if detail != "" && detail != message {
		if message == "" {
			return detail
		}
		return message + " (" + strings.TrimSpace(detail) + ")"
	}
	return message
}

func readString(d *jx.Decoder, dst *string) error {
	if d.Next() != jx.String {
		return d.Skip()
	}
	s, err := d.Str()
	if err != nil {
		return err
	}
	*dst = s
	return nil
}
