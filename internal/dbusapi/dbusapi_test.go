package dbusapi

import (
	"encoding/xml"
	"math"
	"reflect"
	"testing"

	"github.com/1broseidon/winpos/internal/platform"
	"github.com/1broseidon/winpos/internal/positioner"
	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wireTypes = map[positioner.ArgType]reflect.Type{
	positioner.ArgString: reflect.TypeOf(""),
	positioner.ArgInt:    reflect.TypeOf(int32(0)),
	positioner.ArgBool:   reflect.TypeOf(false),
}

type stubBackend struct{ moved []platform.Rect }

func (s *stubBackend) Windows() ([]platform.Window, error) {
	return []platform.Window{{ID: 1, Title: "Mozilla Firefox", WMClass: "firefox", Type: platform.WindowNormal}}, nil
}
func (s *stubBackend) FocusedWindow() (platform.Window, error) { return platform.Window{}, platform.ErrNoWindow }
func (s *stubBackend) Unmaximize(platform.WindowID) error { return nil }
func (s *stubBackend) MoveResizeFrame(_ platform.WindowID, r platform.Rect) error {
	s.moved = append(s.moved, r)
	return nil
}
func (s *stubBackend) Displays() ([]platform.Display, int, error) { return nil, -1, nil }

func newDispatcher(b platform.Backend) *positioner.Dispatcher {
	l := zerolog.Nop()
	return positioner.NewDispatcher(b, positioner.WithLogger(&l))
}

func TestMethodTable_SignaturesMatchDeclarations(t *testing.T) {
	table := MethodTable(newDispatcher(&stubBackend{}))
	require.Len(t, table, len(positioner.Specs))

	errType := reflect.TypeOf((*dbus.Error)(nil))
	for _, spec := range positioner.Specs {
		fn, ok := table[string(spec.Op)]
		require.True(t, ok, "missing method %s", spec.Op)

		ft := reflect.TypeOf(fn)
		require.Equal(t, len(spec.In), ft.NumIn(), spec.Op)
		for i, in := range spec.In {
			assert.Equal(t, wireTypes[in.Type], ft.In(i), "%s arg %s", spec.Op, in.Name)
		}
		require.Equal(t, 2, ft.NumOut(), spec.Op)
		assert.Equal(t, wireTypes[spec.Out.Type], ft.Out(0), spec.Op)
		assert.Equal(t, errType, ft.Out(1), spec.Op)
	}
}

func TestMethodTable_CallsThroughToDispatcher(t *testing.T) {
	backend := &stubBackend{}
	table := MethodTable(newDispatcher(backend))

	position := table[string(positioner.OpPositionWindow)].(func(string, int32, int32, int32, int32) (bool, *dbus.Error))
	ok, derr := position("firefox", 100, 100, 1024, 768)
	assert.Nil(t, derr)
	assert.True(t, ok)
	assert.Equal(t, []platform.Rect{{X: 100, Y: 100, Width: 1024, Height: 768}}, backend.moved)

	active := table[string(positioner.OpGetActiveWindowInfo)].(func() (string, *dbus.Error))
	doc, derr := active()
	assert.Nil(t, derr)
	assert.Contains(t, doc, `"wmClass":"firefox"`)
}

func TestNode_DescribesInterface(t *testing.T) {
	node := Node()
	assert.Equal(t, "/org/gnome/Shell/WindowPositioner", node.Name)
	require.Len(t, node.Interfaces, 2)

	iface := node.Interfaces[1]
	assert.Equal(t, "org.gnome.Shell.WindowPositioner", iface.Name)
	require.Len(t, iface.Methods, 6)

	byName := map[string]introspect.Method{}
	for _, m := range iface.Methods {
		byName[m.Name] = m
	}
	assert.Equal(t, []introspect.Arg{
		{Name: "wmClass", Type: "s", Direction: "in"},
		{Name: "titlePattern", Type: "s", Direction: "in"},
		{Name: "x", Type: "i", Direction: "in"},
		{Name: "y", Type: "i", Direction: "in"},
		{Name: "width", Type: "i", Direction: "in"},
		{Name: "height", Type: "i", Direction: "in"},
		{Name: "success", Type: "b", Direction: "out"},
	}, byName["PositionWindowByClassAndTitle"].Args)
	assert.Equal(t, []introspect.Arg{
		{Name: "monitorData", Type: "s", Direction: "out"},
	}, byName["GetMonitorInfo"].Args)

	out, err := xml.Marshal(node)
	require.NoError(t, err)
	assert.Contains(t, string(out), `<method name="GetWindowInfo">`)
}

func TestCallArgs(t *testing.T) {
	args := positioner.Args{Title: "docs", Class: "firefox", X: -10, Y: 20, Width: 300, Height: 400}

	spec, _ := positioner.LookupSpec(positioner.OpPositionWindowByClassAndTitle)
	got, err := CallArgs(spec, args)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"firefox", "docs", int32(-10), int32(20), int32(300), int32(400)}, got)

	spec, _ = positioner.LookupSpec(positioner.OpGetWindowInfo)
	got, err = CallArgs(spec, args)
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"docs"}, got)

	spec, _ = positioner.LookupSpec(positioner.OpGetMonitorInfo)
	got, err = CallArgs(spec, args)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCallArgs_RejectsValuesOutsideInt32(t *testing.T) {
	spec, _ := positioner.LookupSpec(positioner.OpPositionWindow)

	tests := []struct {
		name string
		args positioner.Args
		want string
	}{
		{"x above", positioner.Args{Title: "a", X: math.MaxInt32 + 1}, "x "},
		{"y below", positioner.Args{Title: "a", Y: math.MinInt32 - 1}, "y "},
		{"width above", positioner.Args{Title: "a", Width: 1 << 40}, "width "},
		{"height below", positioner.Args{Title: "a", Height: -(1 << 40)}, "height "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CallArgs(spec, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	got, err := CallArgs(spec, positioner.Args{Title: "a", X: math.MinInt32, Y: math.MaxInt32})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", int32(math.MinInt32), int32(math.MaxInt32), int32(0), int32(0)}, got)
}
