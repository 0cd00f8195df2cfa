package log

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// formatter renders entries through a pattern. Supported verbs are %time,
// %level, %field, %msg, %caller, %func, %goroutine and %n for a newline.
type formatter struct {
	pattern string
	time    string
}

func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	r := strings.NewReplacer(
		"%time", entry.Time.Format(f.time),
		"%level", entry.Level.String(),
		"%field", buildFields(entry),
		"%msg", entry.Message,
		"%caller", caller(entry),
		"%func", function(entry),
		"%goroutine", goroutineID(),
		"%n", "\n",
	)
	out := r.Replace(f.pattern)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return []byte(out), nil
}

// caller renders package/file:line. Entries carry a caller only when
// caller reporting is on.
func caller(entry *logrus.Entry) string {
	if !entry.HasCaller() {
		return "unknown"
	}
	file := entry.Caller.File
	if i := strings.LastIndex(file, "/"); i != -1 {
		file = file[i+1:]
	}
	pkg := ""
	if fn := entry.Caller.Function; fn != "" {
		if i := strings.LastIndex(fn, "/"); i != -1 {
			fn = fn[i+1:]
		}
		pkg, _, _ = strings.Cut(fn, ".")
	}
	return fmt.Sprintf("%s/%s:%d", pkg, file, entry.Caller.Line)
}

func function(entry *logrus.Entry) string {
	if !entry.HasCaller() {
		return "unknown"
	}
	fn := entry.Caller.Function
	if i := strings.LastIndex(fn, "."); i != -1 {
		return fn[i+1:]
	}
	return fn
}

func goroutineID() string {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	id := strings.Fields(strings.TrimPrefix(string(buf[:n]), "goroutine "))
	if len(id) > 0 {
		return id[0]
	}
	return "unknown"
}

// buildFields renders the entry data as key=value pairs in key order.
func buildFields(entry *logrus.Entry) string {
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, k+"="+fmt.Sprint(entry.Data[k]))
	}
	return strings.Join(fields, ",")
}
