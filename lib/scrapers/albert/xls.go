package albert

import (
	"context"
	"io"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/leingang/ps2vcard/lib/htmlutil"
	"go.opentelemetry.io/otel/codes"
)

// ParseXls reads the "ps.xls" roster download, which is HTML wearing an
// Excel extension: a single table with a th header row and one tr per
// student. Unlike the roster page there is no keyed state to track, the
// header row is simply zipped against each row's cells.
//
// Records are keyed by the raw header strings ("Name", "Email Address",
// "Campus ID", ...).
func ParseXls(ctx context.Context, r io.Reader) ([]map[string]string, error) {
	ctx, span := tracer.Start(ctx, "albert:ParseXls")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	var headers []string
	for _, th := range doc.Find("th").Nodes {
		headers = append(headers, htmlutil.CleanText(htmlutil.GetText(th)))
	}

	var students []map[string]string
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td").Nodes
		if len(cells) == 0 {
			// header row
			return
		}
		student := map[string]string{}
		for i, td := range cells {
			if i >= len(headers) {
				break
			}
			student[headers[i]] = htmlutil.CleanText(htmlutil.GetText(td))
		}
		students = append(students, student)
	})

	return students, nil
}

func ParseXlsFile(ctx context.Context, path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseXls(ctx, f)
}
