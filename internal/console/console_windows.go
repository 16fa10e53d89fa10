// Package console detects how the process was started and installs a Ctrl+C
// handler that survives native libraries replacing it.
package console

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/windows"
)

var (
	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procGetConsoleWindow      = kernel32.NewProc("GetConsoleWindow")
	procAllocConsole          = kernel32.NewProc("AllocConsole")
	procFreeConsole           = kernel32.NewProc("FreeConsole")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

// Attach reports whether the process runs from a terminal. A console build
// double-clicked in Explorer drops its console window and returns false; a
// GUI build started from a terminal gets a console of its own.
func Attach() bool {
	fromExplorer := launchedFromExplorer()
	if hasConsoleWindow() {
		if fromExplorer {
			procFreeConsole.Call()
			return false
		}
		return true
	}
	if fromExplorer {
		return false
	}
	procAllocConsole.Call()
	redirectStdStreams()
	return true
}

func hasConsoleWindow() bool {
	hwnd, _, _ := procGetConsoleWindow.Call()
	return hwnd != 0
}

func redirectStdStreams() {
	out, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil || out == 0 {
		return
	}
	os.Stdout = os.NewFile(uintptr(out), "/dev/stdout")
	if h, err := windows.GetStdHandle(windows.STD_ERROR_HANDLE); err == nil && h != 0 {
		os.Stderr = os.NewFile(uintptr(h), "/dev/stderr")
	}
	if h, err := windows.GetStdHandle(windows.STD_INPUT_HANDLE); err == nil && h != 0 {
		os.Stdin = os.NewFile(uintptr(h), "/dev/stdin")
	}
}

func launchedFromExplorer() bool {
	ppid := parentPID(uint32(os.Getpid()))
	if ppid == 0 {
		return false
	}
	return isExplorer(imageName(ppid))
}

func parentPID(pid uint32) uint32 {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return 0
	}
	defer windows.CloseHandle(snap)

	var e windows.ProcessEntry32
	e.Size = uint32(unsafe.Sizeof(e))
	for err = windows.Process32First(snap, &e); err == nil; err = windows.Process32Next(snap, &e) {
		if e.ProcessID == pid {
			return e.ParentProcessID
		}
	}
	return 0
}

func imageName(pid uint32) string {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	var buf [windows.MAX_PATH]uint16
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}

func isExplorer(path string) bool {
	return strings.EqualFold(filepath.Base(path), "explorer.exe")
}

var (
	handlerOnce sync.Once
	handlerFn   uintptr
	interrupt   func()
)

// HandleInterrupt calls fn once on Ctrl+C or Ctrl+Break. Go's own signal
// delivery is unreliable once SDL installs its handler, so the returned
// function re-registers ours and should be called after the backend opens.
func HandleInterrupt(fn func(), log zerolog.Logger) func() {
	var once sync.Once
	interrupt = func() { once.Do(fn) }
	handlerOnce.Do(func() {
		handlerFn = windows.NewCallback(func(ctrlType uint32) uintptr {
			switch ctrlType {
			case windows.CTRL_C_EVENT, windows.CTRL_BREAK_EVENT:
				interrupt()
				return 1
			}
			return 0
		})
	})

	register := func() {
		if ret, _, err := procSetConsoleCtrlHandler.Call(handlerFn, 1); ret == 0 {
			log.Warn().Err(err).Msg("console control handler not installed")
		}
	}
	register()
	return register
}
