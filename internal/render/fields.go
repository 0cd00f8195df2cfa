package render

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"firestige.xyz/overwatch/internal/core"
)

// item renders one element of a header line from the header record. An
// empty string omits the element; ok=false drops the whole line.
type item func(st Style, h core.Header) (s string, ok bool)

// descriptor is the rendering recipe of one header kind: the layer label
// followed by its items in order.
type descriptor struct {
	layer string
	items []item
}

// line renders h with d. ok is false when an item could not be rendered.
func (d descriptor) line(st Style, h core.Header) (string, bool) {
	parts := []string{layerLabel(st, d.layer)}
	for _, it := range d.items {
		s, ok := it(st, h)
		if !ok {
			return "", false
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " "), true
}

func layerLabel(st Style, name string) string {
	return st.Layer(fmt.Sprintf("%-5s", name)) + st.Dim("|")
}

func field(st Style, label, value string) string {
	return st.Dim(label) + " " + value
}

func badField(st Style, label, bad, expected string) string {
	return st.Dim(label) + " " + st.Bad(bad) + " != " + expected
}

func fromTo(st Style, src, dst string) string {
	return st.Value(src) + " " + st.Dim(">") + " " + st.Value(dst)
}

// num renders "label value".
func num(label, name string) item {
	return func(st Style, h core.Header) (string, bool) {
		v, err := h.Uint(name)
		if err != nil {
			return "", false
		}
		return field(st, label, strconv.FormatUint(v, 10)), true
	}
}

// bare renders the value without a label.
func bare(name string) item {
	return func(st Style, h core.Header) (string, bool) {
		v, err := h.Uint(name)
		if err != nil {
			return "", false
		}
		return st.Value(strconv.FormatUint(v, 10)), true
	}
}

func boolean(label, name string) item {
	return func(st Style, h core.Header) (string, bool) {
		v, err := h.Bool(name)
		if err != nil {
			return "", false
		}
		return field(st, label, strconv.FormatBool(v)), true
	}
}

// code renders a value through a resolver that falls back to a raw form.
func code(label, name string, resolve func(uint64) string, colored bool) item {
	return func(st Style, h core.Header) (string, bool) {
		v, err := h.Uint(name)
		if err != nil {
			return "", false
		}
		s := resolve(v)
		if colored {
			s = st.Layer(s)
		}
		if label == "" {
			return s, true
		}
		return field(st, label, s), true
	}
}

func ethertype(v uint64) string { return core.Ethertype(v).String() }
func ipProto(v uint64) string   { return core.IPProto(v).String() }

// table resolves v in t, or formats it with fallback.
func table(t codeTable, fallback string) func(uint64) string {
	return func(v uint64) string {
		if s, ok := t.name(v); ok {
			return s
		}
		return fmt.Sprintf(fallback, v)
	}
}

// flagBit names one bit of a flag field, or a one-bit field when mask is 0.
type flagBit struct {
	name  string
	field string
	mask  uint64
}

// flags renders the names of the set bits joined by "|". With omitEmpty
// the element disappears when no flag is set.
func flags(label string, bits []flagBit, omitEmpty bool) item {
	return func(st Style, h core.Header) (string, bool) {
		var set []string
		for _, b := range bits {
			v, err := h.Uint(b.field)
			if err != nil {
				return "", false
			}
			if (b.mask == 0 && v != 0) || v&b.mask != 0 {
				set = append(set, b.name)
			}
		}
		if len(set) == 0 && omitEmpty {
			return "", true
		}
		return field(st, label, strings.Join(set, "|")), true
	}
}

// macPair renders "src > dst" of two link address fields.
func macPair(src, dst string) item {
	return func(st Style, h core.Header) (string, bool) {
		s, err := h.MAC(src)
		if err != nil {
			return "", false
		}
		d, err := h.MAC(dst)
		if err != nil {
			return "", false
		}
		return fromTo(st, net.HardwareAddr(s[:]).String(), net.HardwareAddr(d[:]).String()), true
	}
}

// addrPair renders "src > dst" of two IP address fields.
func addrPair(src, dst string) item {
	return func(st Style, h core.Header) (string, bool) {
		s, err := h.Addr(src)
		if err != nil {
			return "", false
		}
		d, err := h.Addr(dst)
		if err != nil {
			return "", false
		}
		return fromTo(st, s.String(), d.String()), true
	}
}

// portPair renders "src > dst" of two numeric fields.
func portPair(src, dst string) item {
	return func(st Style, h core.Header) (string, bool) {
		s, err := h.Uint(src)
		if err != nil {
			return "", false
		}
		d, err := h.Uint(dst)
		if err != nil {
			return "", false
		}
		return fromTo(st, strconv.FormatUint(s, 10), strconv.FormatUint(d, 10)), true
	}
}

// resolve renders "ip/mac > ip/mac" for address resolution headers.
func resolve(st Style, h core.Header) (string, bool) {
	smac, err := h.MAC("sender_mac")
	if err != nil {
		return "", false
	}
	sip, err := h.Addr("sender_ip")
	if err != nil {
		return "", false
	}
	tmac, err := h.MAC("target_mac")
	if err != nil {
		return "", false
	}
	tip, err := h.Addr("target_ip")
	if err != nil {
		return "", false
	}
	return st.Value(sip.String()) + st.Dim("/") + st.Value(net.HardwareAddr(smac[:]).String()) +
		" " + st.Dim(">") + " " +
		st.Value(tip.String()) + st.Dim("/") + st.Value(net.HardwareAddr(tmac[:]).String()), true
}

// icmpTypeCode renders "type T code C". Codes resolve only in the table of
// their type; anything unresolved renders as a number.
func icmpTypeCode(types codeTable, codes map[uint64]codeTable) item {
	return func(st Style, h core.Header) (string, bool) {
		typ, err := h.Uint("type")
		if err != nil {
			return "", false
		}
		c, err := h.Uint("code")
		if err != nil {
			return "", false
		}

		typName, ok := types.name(typ)
		if !ok {
			typName = strconv.FormatUint(typ, 10)
		}
		codeName := strconv.FormatUint(c, 10)
		if sub, ok := codes[typ]; ok {
			if s, ok := sub.name(c); ok {
				codeName = s
			}
		}
		return field(st, "type", typName) + " " + field(st, "code", codeName), true
	}
}

// ipv4Flags renders the three bit fragmentation flags.
func ipv4Flags(st Style, h core.Header) (string, bool) {
	v, err := h.Uint("flags")
	if err != nil {
		return "", false
	}
	var s string
	switch v {
	case 0b010:
		s = "DF"
	case 0b001:
		s = "MF"
	case 0b011:
		s = "DF|MF"
	}
	return field(st, "flags", s), true
}

// bfdDiag renders the diagnostic unless it is NoDiagnostic. Unknown
// diagnostics are flagged.
func bfdDiag(st Style, h core.Header) (string, bool) {
	v, err := h.Uint("diag")
	if err != nil {
		return "", false
	}
	if v == 0 {
		return "", true
	}
	if s, ok := bfdDiagnostics.name(v); ok {
		return field(st, "diag", s), true
	}
	return field(st, "diag", st.Bad(strconv.FormatUint(v, 10))), true
}

func bfdStatus(st Style, h core.Header) (string, bool) {
	v, err := h.Uint("status")
	if err != nil {
		return "", false
	}
	if s, ok := bfdStatuses.name(v); ok {
		return field(st, "status", s), true
	}
	return field(st, "status", st.Bad(strconv.FormatUint(v, 10))), true
}
