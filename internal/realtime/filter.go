package realtime

import (
	"strconv"

	"github.com/valyala/fastjson"
)

// Filter selects events by table, optional event type, and optional
// column equality on the record.
type Filter struct {
	Table  string
	Event  string
	Column string
	Value  string
}

var parsers fastjson.ParserPool

// Matches reports whether ev passes f. Column values are compared in their
// string form, so uuids, strings, numbers and booleans all work.
func (f Filter) Matches(ev Event) bool {
	if f.Table != ev.Table {
		return false
	}
	if f.Event != "" && f.Event != ev.Type {
		return false
	}
	if f.Column == "" {
		return true
	}

	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(ev.Record)
	if err != nil {
		return false
	}
	field := v.Get(f.Column)
	if field == nil {
		return false
	}
	return scalarString(field) == f.Value
}

func scalarString(v *fastjson.Value) string {
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return strconv.FormatFloat(v.GetFloat64(), 'f', -1, 64)
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	case fastjson.TypeNull:
		return "null"
	}
	return string(v.MarshalTo(nil))
}

// Field extracts one string column from the record, for callers that need
// more than equality.
func Field(ev Event, column string) (string, bool) {
	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.ParseBytes(ev.Record)
	if err != nil {
		return "", false
	}
	field := v.Get(column)
	if field == nil {
		return "", false
	}
	return scalarString(field), true
}
