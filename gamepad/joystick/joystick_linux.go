//go:build linux

package joystick

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	"github.com/soar/gamepads/gamepad"
	"github.com/soar/gamepads/gamepad/eventstream"
)

type openDevice struct {
	*device
	fd int
}

// Source reads every joystick node under one directory.
type Source struct {
	dir      string
	deadzone float32
	log      zerolog.Logger
	notify   int
	watch    int
	devices  map[string]*openDevice
	pending  []Event
	buf      []byte
}

// Open scans dir for js* nodes and starts watching it for hot-plug.
func Open(dir string, deadzone float32, log zerolog.Logger) (*Source, error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("joystick: inotify init: %w", err)
	}
	wd, err := unix.InotifyAddWatch(fd, dir, unix.IN_CREATE|unix.IN_DELETE|unix.IN_ATTRIB)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("joystick: watch %s: %w", dir, err)
	}

	s := &Source{
		dir:      dir,
		deadzone: gamepad.ClampDeadzone(deadzone),
		log:      log,
		notify:   fd,
		watch:    wd,
		devices:  make(map[string]*openDevice),
		buf:      make([]byte, 64*EventSize),
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("joystick: read %s: %w", dir, err)
	}
	for _, e := range entries {
		if isJoystick(e.Name()) {
			s.open(e.Name())
		}
	}
	return s, nil
}

func (s *Source) NextEvent() (Event, bool) {
	if len(s.pending) == 0 {
		s.fill()
	}
	if len(s.pending) == 0 {
		return Event{}, false
	}
	ev := s.pending[0]
	s.pending = s.pending[1:]
	return ev, true
}

func (s *Source) emit(ev Event) { s.pending = append(s.pending, ev) }

// fill collects hot-plug changes and everything the devices buffered.
func (s *Source) fill() {
	s.readNotify()
	for name, d := range s.devices {
		for {
			n, err := unix.Read(d.fd, s.buf)
			if errors.Is(err, unix.EAGAIN) {
				break
			}
			if err != nil || n == 0 {
				s.log.Debug().Err(err).Str("device", name).Msg("joystick read failed")
				s.close(name)
				break
			}
			for off := 0; off+EventSize <= n; off += EventSize {
				e, _ := decodeEvent(s.buf[off:])
				d.translate(e, s.emit)
			}
			if n < len(s.buf) {
				break
			}
		}
	}
}

func (s *Source) readNotify() {
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(s.notify, buf)
		if err != nil || n < unix.SizeofInotifyEvent {
			return
		}
		for off := 0; off+unix.SizeofInotifyEvent <= n; {
			ev := (*unix.InotifyEvent)(unsafe.Pointer(&buf[off]))
			start := off + unix.SizeofInotifyEvent
			name := string(bytes.TrimRight(buf[start:start+int(ev.Len)], "\x00"))
			off = start + int(ev.Len)
			if !isJoystick(name) {
				continue
			}
			switch {
			case ev.Mask&unix.IN_DELETE != 0:
				s.close(name)
			case ev.Mask&(unix.IN_CREATE|unix.IN_ATTRIB) != 0:
				// udev fixes permissions after the node appears
				s.open(name)
			}
		}
	}
}

func (s *Source) open(name string) {
	if _, ok := s.devices[name]; ok {
		return
	}
	path := filepath.Join(s.dir, name)
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		s.log.Debug().Err(err).Str("path", path).Msg("cannot open joystick")
		return
	}

	var (
		axes, buttons uint8
		nameBuf       [nameLen]byte
		axMap         [absCount]uint8
		btnMap        [btnMapLen]uint16
	)
	for _, q := range []struct {
		req uintptr
		ptr unsafe.Pointer
	}{
		{jsiocgAxes, unsafe.Pointer(&axes)},
		{jsiocgButton, unsafe.Pointer(&buttons)},
		{jsiocgName, unsafe.Pointer(&nameBuf[0])},
		{jsiocgAxMap, unsafe.Pointer(&axMap[0])},
		{jsiocgBtnMap, unsafe.Pointer(&btnMap[0])},
	} {
		if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), q.req, uintptr(q.ptr)); errno != 0 {
			_ = unix.Close(fd)
			s.log.Warn().Err(errno).Str("path", path).Msg("joystick ioctl failed")
			return
		}
	}

	model, _, _ := bytes.Cut(nameBuf[:], []byte{0})
	d := newDevice(name, string(model), append([]uint16(nil), btnMap[:buttons]...), append([]uint8(nil), axMap[:axes]...))
	s.devices[name] = &openDevice{device: d, fd: fd}
	s.log.Info().Str("name", d.model).Str("path", path).Uint8("axes", axes).Uint8("buttons", buttons).Msg("joystick connected")
	s.emit(Event{Kind: eventstream.Connected, Device: name})
}

func (s *Source) close(name string) {
	d, ok := s.devices[name]
	if !ok {
		return
	}
	_ = unix.Close(d.fd)
	delete(s.devices, name)
	s.log.Info().Str("name", d.model).Msg("joystick disconnected")
	s.emit(Event{Kind: eventstream.Disconnected, Device: name})
}

func (s *Source) Deadzone(name string, _ eventstream.NativeAxis) (float32, bool) {
	if _, ok := s.devices[name]; !ok {
		return 0, false
	}
	return s.deadzone, true
}

// Rumble is not available through the joystick interface.
func (s *Source) Rumble(string, gamepad.Rumble) (gamepad.Playback, error) {
	return nil, gamepad.ErrUnsupported
}

func (s *Source) MagnitudeMax() uint32 { return 0xFFFF }

func (s *Source) Close() error {
	for name, d := range s.devices {
		_ = unix.Close(d.fd)
		delete(s.devices, name)
	}
	_, _ = unix.InotifyRmWatch(s.notify, uint32(s.watch))
	return unix.Close(s.notify)
}
