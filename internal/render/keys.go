package render

import (
	"strconv"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// csiKeys are keys sent as ESC [ <final> or ESC [ 1 ; <mod> <final>.
var csiKeys = map[tcell.Key]byte{
	tcell.KeyUp:    'A',
	tcell.KeyDown:  'B',
	tcell.KeyRight: 'C',
	tcell.KeyLeft:  'D',
	tcell.KeyHome:  'H',
	tcell.KeyEnd:   'F',
}

// tildeKeys are keys sent as ESC [ <n> ~ or ESC [ <n> ; <mod> ~.
var tildeKeys = map[tcell.Key]int{
	tcell.KeyInsert: 2,
	tcell.KeyDelete: 3,
	tcell.KeyPgUp:   5,
	tcell.KeyPgDn:   6,
	tcell.KeyF5:     15,
	tcell.KeyF6:     17,
	tcell.KeyF7:     18,
	tcell.KeyF8:     19,
	tcell.KeyF9:     20,
	tcell.KeyF10:    21,
	tcell.KeyF11:    23,
	tcell.KeyF12:    24,
}

// ss3Keys are F1-F4, sent as ESC O <final> without modifiers.
var ss3Keys = map[tcell.Key]byte{
	tcell.KeyF1: 'P',
	tcell.KeyF2: 'Q',
	tcell.KeyF3: 'R',
	tcell.KeyF4: 'S',
}

// EncodeKey returns the bytes an xterm sends for ev, or nil for keys it
// has no encoding for.
func EncodeKey(ev *tcell.EventKey) []byte {
	mod := ev.Modifiers()
	key := ev.Key()

	switch key {
	case tcell.KeyRune:
		return encodeRune(ev.Rune(), mod)
	case tcell.KeyBacktab:
		return []byte("\x1b[Z")
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return withAlt([]byte{0x7f}, mod)
	case tcell.KeyEnter:
		return withAlt([]byte{'\r'}, mod)
	case tcell.KeyTab:
		return withAlt([]byte{'\t'}, mod)
	case tcell.KeyEscape:
		return withAlt([]byte{0x1b}, mod)
	}

	if final, ok := csiKeys[key]; ok {
		if m := modParam(mod); m > 1 {
			return []byte("\x1b[1;" + strconv.Itoa(m) + string(final))
		}
		return []byte{0x1b, '[', final}
	}
	if n, ok := tildeKeys[key]; ok {
		if m := modParam(mod); m > 1 {
			return []byte("\x1b[" + strconv.Itoa(n) + ";" + strconv.Itoa(m) + "~")
		}
		return []byte("\x1b[" + strconv.Itoa(n) + "~")
	}
	if final, ok := ss3Keys[key]; ok {
		if m := modParam(mod); m > 1 {
			return []byte("\x1b[1;" + strconv.Itoa(m) + string(final))
		}
		return []byte{0x1b, 'O', final}
	}

	if key >= tcell.KeyCtrlSpace && key <= tcell.KeyCtrlUnderscore {
		return withAlt([]byte{byte(key - tcell.KeyCtrlSpace)}, mod)
	}
	if key >= 0 && key < ' ' {
		return withAlt([]byte{byte(key)}, mod)
	}
	return nil
}

func encodeRune(r rune, mod tcell.ModMask) []byte {
	if mod&tcell.ModCtrl != 0 {
		switch {
		case r >= 'a' && r <= 'z':
			return withAlt([]byte{byte(r - 'a' + 1)}, mod)
		case r >= '@' && r <= '_':
			return withAlt([]byte{byte(r - '@')}, mod)
		case r == ' ':
			return withAlt([]byte{0}, mod)
		}
	}
	return withAlt(utf8.AppendRune(nil, r), mod)
}

func withAlt(b []byte, mod tcell.ModMask) []byte {
	if mod&tcell.ModAlt != 0 {
		return append([]byte{0x1b}, b...)
	}
	return b
}

// modParam is the xterm modifier parameter: 1 plus a bit mask of shift,
// alt and ctrl.
func modParam(mod tcell.ModMask) int {
	m := 0
	if mod&tcell.ModShift != 0 {
		m |= 1
	}
	if mod&tcell.ModAlt != 0 {
		m |= 2
	}
	if mod&tcell.ModCtrl != 0 {
		m |= 4
	}
	return m + 1
}
