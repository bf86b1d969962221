package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dualHead() []Info {
	return []Info{
		{Name: "screen-0", X: 0, Y: 0, Width: 2560, Height: 1440, Scale: 1.0, Primary: true},
		{Name: "screen-1", X: 2560, Y: 0, Width: 1920, Height: 1080, Scale: 1.0},
	}
}

func TestInfo_Contains(t *testing.T) {
	m := Info{X: 100, Y: 200, Width: 800, Height: 600}

	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{name: "inside", x: 500, y: 400, want: true},
		{name: "top-left corner inclusive", x: 100, y: 200, want: true},
		{name: "right edge exclusive", x: 900, y: 400, want: false},
		{name: "bottom edge exclusive", x: 500, y: 800, want: false},
		{name: "last contained pixel", x: 899, y: 799, want: true},
		{name: "left of monitor", x: 99, y: 400, want: false},
		{name: "above monitor", x: 500, y: 199, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Contains(tt.x, tt.y))
		})
	}
}

func TestInfo_Center(t *testing.T) {
	m := Info{X: 2560, Y: 0, Width: 1920, Height: 1080}
	x, y := m.Center()
	assert.Equal(t, 2560+960, x)
	assert.Equal(t, 540, y)
}

func TestInfo_String(t *testing.T) {
	m := Info{Name: "screen-1", X: 2560, Y: 0, Width: 1920, Height: 1080}
	assert.Equal(t, "screen-1 1920x1080+2560+0", m.String())
}

func TestPickMonitor(t *testing.T) {
	monitors := dualHead()

	tests := []struct {
		name string
		x, y int
		want string
	}{
		{name: "on first monitor", x: 1000, y: 700, want: "screen-0"},
		{name: "on second monitor", x: 3000, y: 500, want: "screen-1"},
		{name: "seam belongs to the right monitor", x: 2560, y: 100, want: "screen-1"},
		{name: "last pixel of first monitor", x: 2559, y: 1439, want: "screen-0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickMonitor(monitors, tt.x, tt.y)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestPickMonitor_Absent(t *testing.T) {
	monitors := dualHead()

	// Below the shorter second monitor there is dead space in the
	// global coordinate grid.
	assert.Nil(t, pickMonitor(monitors, 3000, 1200))
	assert.Nil(t, pickMonitor(monitors, -5, 10))
	assert.Nil(t, pickMonitor(nil, 0, 0))
}

func TestNoopLocator(t *testing.T) {
	l := NewNoopLocator()

	monitors, err := l.All()
	require.NoError(t, err)
	assert.Empty(t, monitors)

	under, err := l.UnderPointer()
	require.NoError(t, err)
	assert.Nil(t, under, "absence is not an error")

	assert.Equal(t, "noop", l.Name())
	l.Close()
}
