package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/tinytelemetry/ecslog/internal/ecs"
)

// Formatter turns one parsed log record into rendered text.
type Formatter interface {
	formatRecord(r *Renderer, rec *fastjson.Value, b *strings.Builder)
}

// defaultFormatter renders a title line followed by the remaining fields as
// indented JSON-ish:
//
//	[@timestamp] LOG.LEVEL (log.logger/service.name on host.hostname): message
//	    $key: $value
type defaultFormatter struct{}

func (f *defaultFormatter) formatRecord(r *Renderer, rec *fastjson.Value, b *strings.Builder) {
	ecs.ExtractValue(rec, "ecs", "version")
	ecs.ExtractValue(rec, "log", "level")
	formatTitleLine(r, rec, b)

	obj := rec.GetObject()
	obj.Visit(func(k []byte, v *fastjson.Value) {
		b.WriteString("\n    ")
		b.WriteString(r.painter.Paint("extraField", string(k)))
		b.WriteString(": ")
		formatJSONValue(b, v, "    ", "    ", r.painter, false)
	})
}

// compactFormatter is the default formatter, except an extra field stays on
// one line when it roughly fits in 80 columns.
type compactFormatter struct{}

func (f *compactFormatter) formatRecord(r *Renderer, rec *fastjson.Value, b *strings.Builder) {
	ecs.ExtractValue(rec, "ecs", "version")
	ecs.ExtractValue(rec, "log", "level")
	formatTitleLine(r, rec, b)

	obj := rec.GetObject()
	obj.Visit(func(k []byte, v *fastjson.Value) {
		b.WriteString("\n    ")
		b.WriteString(r.painter.Paint("extraField", string(k)))
		b.WriteString(": ")
		// v.String() overestimates nothing but misses the ": " spacing
		// added between object members, so the fit check is approximate.
		vStr := v.String()
		// 80 (quotable width) - 8 (indentation) - len(k) - len(": ")
		compact := len(vStr) < 80-8-len(k)-2
		formatJSONValue(b, v, "    ", "    ", r.painter, compact)
	})
}

// ecsFormatter emits the raw input line unchanged.
type ecsFormatter struct{}

func (f *ecsFormatter) formatRecord(r *Renderer, rec *fastjson.Value, b *strings.Builder) {
	b.WriteString(r.line)
}

// simpleFormatter renders `LOG.LEVEL: message`, plus an ellipsis when extra
// fields are being elided.
type simpleFormatter struct{}

func (f *simpleFormatter) formatRecord(r *Renderer, rec *fastjson.Value, b *strings.Builder) {
	ecs.ExtractValue(rec, "ecs", "version")
	ecs.ExtractValue(rec, "log", "level")
	ecs.ExtractValue(rec, "@timestamp")
	message := ecs.ExtractValue(rec, "message").GetStringBytes()

	if r.logLevel != "" {
		b.WriteString(r.painter.Paint(strings.ToLower(r.logLevel),
			fmt.Sprintf("%5s", strings.ToUpper(r.logLevel))))
	}
	if b.Len() > 0 {
		b.WriteByte(':')
	}
	if message != nil {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.painter.Paint("message", string(message)))
	}

	if rec.GetObject().Len() != 0 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.painter.Paint("ellipsis", "…"))
	}
}

func formatTitleLine(r *Renderer, rec *fastjson.Value, b *strings.Builder) {
	var logLogger []byte
	if val := ecs.ExtractValueOfType(rec, fastjson.TypeString, "log", "logger"); val != nil {
		logLogger = val.GetStringBytes()
	}
	var serviceName []byte
	if val := ecs.ExtractValueOfType(rec, fastjson.TypeString, "service", "name"); val != nil {
		serviceName = val.GetStringBytes()
	}
	var hostHostname []byte
	if val := ecs.ExtractValueOfType(rec, fastjson.TypeString, "host", "hostname"); val != nil {
		hostHostname = val.GetStringBytes()
	}

	timestamp := ecs.ExtractValue(rec, "@timestamp").GetStringBytes()
	message := ecs.ExtractValue(rec, "message").GetStringBytes()

	if timestamp != nil {
		b.WriteByte('[')
		b.Write(timestamp)
		b.WriteString("] ")
	}
	if r.logLevel != "" {
		b.WriteString(r.painter.Paint(strings.ToLower(r.logLevel),
			fmt.Sprintf("%5s", strings.ToUpper(r.logLevel))))
	}
	if logLogger != nil || serviceName != nil || hostHostname != nil {
		b.WriteString(" (")
		alreadyWroteSome := false
		if logLogger != nil {
			b.Write(logLogger)
			alreadyWroteSome = true
		}
		if serviceName != nil {
			if alreadyWroteSome {
				b.WriteByte('/')
			}
			b.Write(serviceName)
			alreadyWroteSome = true
		}
		if hostHostname != nil {
			if alreadyWroteSome {
				b.WriteByte(' ')
			}
			b.WriteString("on ")
			b.Write(hostHostname)
		}
		b.WriteByte(')')
	}
	if b.Len() > 0 {
		b.WriteByte(':')
	}
	if message != nil {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(r.painter.Paint("message", string(message)))
	}
}

// formatJSONValue writes v as JSON-ish text: 4-space indentation unless
// compact, and multiline strings (commonly "error.stack_trace") broken out
// unquoted on their own indented lines.
func formatJSONValue(b *strings.Builder, v *fastjson.Value, currIndent, indent string, painter *Painter, compact bool) {
	switch v.Type() {
	case fastjson.TypeObject:
		b.WriteByte('{')
		var i int
		v.GetObject().Visit(func(subk []byte, subv *fastjson.Value) {
			if i != 0 {
				b.WriteByte(',')
				if compact {
					b.WriteByte(' ')
				}
			}
			if !compact {
				b.WriteByte('\n')
				b.WriteString(currIndent)
				b.WriteString(indent)
			}
			b.WriteString(painter.Paint("jsonObjectKey", `"`+string(subk)+`"`))
			b.WriteString(": ")
			formatJSONValue(b, subv, currIndent+indent, indent, painter, compact)
			i++
		})
		if !compact {
			b.WriteByte('\n')
			b.WriteString(currIndent)
		}
		b.WriteByte('}')
	case fastjson.TypeArray:
		b.WriteByte('[')
		for i, subv := range v.GetArray() {
			if i != 0 {
				b.WriteByte(',')
				if compact {
					b.WriteByte(' ')
				}
			}
			if !compact {
				b.WriteByte('\n')
				b.WriteString(currIndent)
				b.WriteString(indent)
			}
			formatJSONValue(b, subv, currIndent+indent, indent, painter, compact)
		}
		if !compact {
			b.WriteByte('\n')
			b.WriteString(currIndent)
		}
		b.WriteByte(']')
	case fastjson.TypeString:
		sBytes := v.GetStringBytes()
		if !compact && bytes.ContainsRune(sBytes, '\n') {
			b.WriteByte('\n')
			b.WriteString(currIndent)
			b.WriteString(indent)
			lines := strings.Split(string(sBytes), "\n")
			b.WriteString(painter.Paint("jsonString",
				strings.Join(lines, "\n"+currIndent+indent)))
		} else {
			b.WriteString(painter.Paint("jsonString", v.String()))
		}
	case fastjson.TypeNumber:
		b.WriteString(painter.Paint("jsonNumber", v.String()))
	case fastjson.TypeTrue:
		b.WriteString(painter.Paint("jsonTrue", v.String()))
	case fastjson.TypeFalse:
		b.WriteString(painter.Paint("jsonFalse", v.String()))
	case fastjson.TypeNull:
		b.WriteString(painter.Paint("jsonNull", v.String()))
	}
}

var formatterFromName = map[string]Formatter{
	"default": &defaultFormatter{},
	"compact": &compactFormatter{},
	"ecs":     &ecsFormatter{},
	"simple":  &simpleFormatter{},
}
