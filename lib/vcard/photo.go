package vcard

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"

	"github.com/leingang/ps2vcard/lib/restyutil"
)

var httpClient = resty.New()

func init() {
	restyutil.InstrumentClient(httpClient, otel.Tracer("ps2vcard.lib.vcard"))
}

// LoadPhoto reads the bytes behind a photo reference from the roster
// parser. References are usually relative paths into the saved page's
// _files directory, sometimes with a cache-busting "?..." suffix that is
// not part of the on-disk name; browsers occasionally leave an absolute
// URL behind instead, in which case the photo is fetched.
func LoadPhoto(ctx context.Context, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		res, err := httpClient.R().
			SetContext(ctx).
			Get(ref)
		if err != nil {
			return nil, err
		}
		if res.IsError() {
			return nil, fmt.Errorf("fetch photo %s: %s", ref, res.Status())
		}
		return res.Body(), nil
	}

	path, _, _ := strings.Cut(ref, "?")
	return os.ReadFile(path)
}
