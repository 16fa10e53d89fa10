// Package tray shows a tray icon with shortcuts to the inspector page.
package tray

import (
	"net"
	"os/exec"
	"runtime"
	"sync"
	"sync/atomic"

	"fyne.io/systray"
	"github.com/rs/zerolog"
)

type Tray struct {
	url          string
	onExit       func()
	log          zerolog.Logger
	once         sync.Once
	shuttingDown atomic.Bool
}

// New creates a tray for a server listening on addr. onExit runs once when
// Exit is clicked.
func New(addr string, onExit func(), log zerolog.Logger) *Tray {
	return &Tray{url: PageURL(addr), onExit: onExit, log: log}
}

// PageURL is the browser address of a server listening on addr.
func PageURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// Run blocks until Quit or Exit. On Windows it must run on the main
// goroutine's thread or a locked one.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {
		t.shuttingDown.Store(true)
		t.log.Debug().Msg("tray exited")
	})
}

func (t *Tray) Quit() {
	if t.shuttingDown.CompareAndSwap(false, true) {
		systray.Quit()
	}
}

func (t *Tray) onReady() {
	systray.SetIcon(icon)
	systray.SetTitle("gamepads")
	systray.SetTooltip("gamepads - " + t.url)

	open := systray.AddMenuItem("Inspector", "Open the inspector page")
	host := systray.AddMenuItem("Browser host", "Open the browser gamepad host page")
	systray.AddSeparator()
	exit := systray.AddMenuItem("Exit", "Quit gamepads")
	go t.handleClicks(open, host, exit)

	t.log.Info().Msg("tray ready")
}

func (t *Tray) handleClicks(open, host, exit *systray.MenuItem) {
	for {
		select {
		case <-open.ClickedCh:
			t.openBrowser(t.url + "/")
		case <-host.ClickedCh:
			t.openBrowser(t.url + "/host.html")
		case <-exit.ClickedCh:
			t.once.Do(t.onExit)
			t.Quit()
			return
		}
	}
}

func (t *Tray) openBrowser(url string) {
	if t.shuttingDown.Load() {
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		t.log.Warn().Err(err).Str("url", url).Msg("open browser")
	}
}
