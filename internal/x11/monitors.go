package x11

import (
	"fmt"
	"log"

	"github.com/1broseidon/placewm/internal/geom"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
)

// Output represents a physical display
type Output struct {
	ID   uint32
	Name string
	Geom geom.Rect
}

// maxOutputName bounds output names the way xrandr abbreviates them.
const maxOutputName = 16

// setupOutputs picks the extension used for output discovery. RandR is
// preferred because it reports layout changes; Xinerama only gives a static
// list of heads.
func (c *Connection) setupOutputs() {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err == nil {
		mask := uint16(randr.NotifyMaskScreenChange | randr.NotifyMaskOutputChange | randr.NotifyMaskCrtcChange)
		if err := randr.SelectInputChecked(conn, c.Root, mask).Check(); err == nil {
			c.randr = true
			return
		}
	}
	if err := xinerama.Init(conn); err == nil {
		c.xinerama = true
		return
	}
	log.Printf("X11: neither RandR nor Xinerama available, using the root window as the only output")
}

// Outputs returns every active output. Disconnected outputs and outputs
// without a CRTC are skipped.
func (c *Connection) Outputs() ([]Output, error) {
	switch {
	case c.randr:
		return c.randrOutputs()
	case c.xinerama:
		return c.xineramaOutputs()
	}
	return []Output{{ID: 0, Name: "screen", Geom: c.ScreenSize()}}, nil
}

func (c *Connection) randrOutputs() ([]Output, error) {
	conn := c.XUtil.Conn()
	resources, err := randr.GetScreenResourcesCurrent(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []Output
	for _, out := range resources.Outputs {
		info, err := randr.GetOutputInfo(conn, out, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Crtc == 0 || info.Connection != randr.ConnectionConnected {
			continue
		}

		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if crtc.Width == 0 || crtc.Height == 0 {
			continue
		}

		name := string(info.Name)
		if len(name) > maxOutputName {
			name = name[:maxOutputName]
		}
		outputs = append(outputs, Output{
			ID:   uint32(out),
			Name: name,
			Geom: geom.Rect{
				X:      int(crtc.X),
				Y:      int(crtc.Y),
				Width:  int(crtc.Width),
				Height: int(crtc.Height),
			},
		})
	}
	return outputs, nil
}

func (c *Connection) xineramaOutputs() ([]Output, error) {
	reply, err := xinerama.QueryScreens(c.XUtil.Conn()).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to query xinerama screens: %w", err)
	}

	outputs := make([]Output, 0, len(reply.ScreenInfo))
	for i, s := range reply.ScreenInfo {
		outputs = append(outputs, Output{
			ID:   uint32(i + 1),
			Name: fmt.Sprintf("xinerama-%d", i),
			Geom: geom.Rect{
				X:      int(s.XOrg),
				Y:      int(s.YOrg),
				Width:  int(s.Width),
				Height: int(s.Height),
			},
		})
	}
	return outputs, nil
}

// ScreenSize returns the root window geometry. The size in the connection
// setup is only used when the server cannot be asked, since it does not
// follow RandR resizes.
func (c *Connection) ScreenSize() geom.Rect {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		s := c.XUtil.Screen()
		return geom.Rect{Width: int(s.WidthInPixels), Height: int(s.HeightInPixels)}
	}
	return geom.Rect{Width: int(g.Width), Height: int(g.Height)}
}

// UsesRandR reports whether output changes arrive as RandR events.
func (c *Connection) UsesRandR() bool {
	return c.randr
}
