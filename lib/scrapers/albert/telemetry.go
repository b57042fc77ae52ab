package albert

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("ps2vcard.lib.scrapers.albert")
