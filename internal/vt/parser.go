package vt

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// maxOSC bounds the payload of one OSC sequence.
const maxOSC = 4096

// maxParam bounds a single numeric parameter.
const maxParam = 65535

type parserState int

const (
	stateGround parserState = iota
	stateEscape
	stateEscapeInter
	stateCSI
	stateCSIInter
	stateOSC
	stateDCS
)

// Parser decodes a VT byte stream and applies it to a Writer. A sequence
// split across Parse calls is resumed on the next call.
type Parser struct {
	w *Writer

	state   parserState
	params  []int
	sub     []bool // params[i] was introduced by ':'
	private byte
	inter   []byte
	osc     []byte

	utf8  [utf8.UTFMax]byte
	utf8n int

	err error

	onTitle   func(string)
	onOSC     func(cmd int, data string)
	onUnknown func(seq string)
}

// NewParser creates a parser that writes through w.
func NewParser(w *Writer) *Parser {
	return &Parser{
		w:      w,
		params: make([]int, 0, 16),
		sub:    make([]bool, 0, 16),
		inter:  make([]byte, 0, 4),
		osc:    make([]byte, 0, 256),
	}
}

// SetTitleCallback sets the callback for OSC 0 and 2 title changes.
func (p *Parser) SetTitleCallback(fn func(string)) { p.onTitle = fn }

// SetOSCCallback sets the callback for OSC commands the parser does not
// handle itself.
func (p *Parser) SetOSCCallback(fn func(cmd int, data string)) { p.onOSC = fn }

// SetUnknownCallback sets the callback for unhandled sequences. Without
// one they are logged at debug level.
func (p *Parser) SetUnknownCallback(fn func(seq string)) { p.onUnknown = fn }

// Parse applies data. It stops at the first write error, which leaves the
// remaining bytes unprocessed. A closed writer yields ErrClosed.
func (p *Parser) Parse(data []byte) error {
	if p.w.cur == nil {
		return ErrClosed
	}
	for _, b := range data {
		p.processByte(b)
		if p.err != nil {
			err := p.err
			p.err = nil
			return err
		}
	}
	return nil
}

// ParseString applies s.
func (p *Parser) ParseString(s string) error {
	return p.Parse([]byte(s))
}

func (p *Parser) fail(err error) {
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *Parser) processByte(b byte) {
	switch p.state {
	case stateGround:
		p.processGround(b)
	case stateEscape:
		p.processEscape(b)
	case stateEscapeInter:
		p.processEscapeInter(b)
	case stateCSI:
		p.processCSI(b)
	case stateCSIInter:
		p.processCSIInter(b)
	case stateOSC:
		p.processOSC(b)
	case stateDCS:
		p.processDCS(b)
	}
}

func (p *Parser) enter(s parserState) {
	p.state = s
	switch s {
	case stateEscape, stateCSI:
		p.params = p.params[:0]
		p.sub = p.sub[:0]
		p.private = 0
		p.inter = p.inter[:0]
	case stateOSC:
		p.osc = p.osc[:0]
	}
}

func (p *Parser) processGround(b byte) {
	if p.utf8n > 0 {
		if b&0xC0 == 0x80 {
			p.utf8[p.utf8n] = b
			p.utf8n++
			if utf8.FullRune(p.utf8[:p.utf8n]) {
				r, _ := utf8.DecodeRune(p.utf8[:p.utf8n])
				p.utf8n = 0
				p.fail(p.w.Print(r))
			}
			return
		}
		// Truncated sequence.
		p.utf8n = 0
		p.fail(p.w.Print(utf8.RuneError))
	}

	switch {
	case b == 0x1B: // ESC
		p.enter(stateEscape)
	case b == 0x07: // BEL
	case b == 0x08: // BS
		p.w.Backspace()
	case b == 0x09: // HT
		p.w.Tab()
	case b == 0x0A, b == 0x0B, b == 0x0C: // LF, VT, FF
		p.fail(p.w.LineFeed())
	case b == 0x0D: // CR
		p.w.CarriageReturn()
	case b >= 0x20 && b < 0x7F:
		p.fail(p.w.Print(rune(b)))
	case b >= 0xC2 && b <= 0xF4: // UTF-8 lead byte
		p.utf8[0] = b
		p.utf8n = 1
	case b >= 0x80:
		p.fail(p.w.Print(utf8.RuneError))
	}
}

func (p *Parser) processEscape(b byte) {
	p.state = stateGround
	switch {
	case b == '[':
		p.enter(stateCSI)
	case b == ']':
		p.enter(stateOSC)
	case b == 'P':
		p.enter(stateDCS)
	case b == '7': // DECSC
		p.w.SaveCursor()
	case b == '8': // DECRC
		p.w.RestoreCursor()
	case b == 'D': // IND
		p.fail(p.w.LineFeed())
	case b == 'E': // NEL
		p.w.CarriageReturn()
		p.fail(p.w.LineFeed())
	case b == 'M': // RI
		p.w.MoveBy(0, -1)
	case b == 'c': // RIS
		p.fail(p.w.Reset())
	case b == '\\': // ST
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
		p.state = stateEscapeInter
	case b >= 0x30 && b <= 0x7E:
		p.unknown("ESC " + string(b))
	}
}

func (p *Parser) processEscapeInter(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
	case b >= 0x30 && b <= 0x7E:
		// Charset designation and the like.
		p.unknown("ESC " + string(p.inter) + string(b))
		p.state = stateGround
	default:
		p.state = stateGround
	}
}

func (p *Parser) nextParam(sub bool) {
	if len(p.params) == 0 {
		p.params = append(p.params, 0)
		p.sub = append(p.sub, false)
	}
	p.params = append(p.params, 0)
	p.sub = append(p.sub, sub)
}

func (p *Parser) processCSI(b byte) {
	switch {
	case b >= '0' && b <= '9':
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
			p.sub = append(p.sub, false)
		}
		last := &p.params[len(p.params)-1]
		*last = min(*last*10+int(b-'0'), maxParam)
	case b == ';':
		p.nextParam(false)
	case b == ':':
		p.nextParam(true)
	case b >= '<' && b <= '?' && len(p.params) == 0 && p.private == 0:
		p.private = b
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
		p.state = stateCSIInter
	case b >= 0x40 && b <= 0x7E:
		p.state = stateGround
		p.handleCSI(b)
	default:
		p.state = stateGround
	}
}

func (p *Parser) processCSIInter(b byte) {
	switch {
	case b >= 0x20 && b <= 0x2F:
		p.inter = append(p.inter, b)
	case b >= 0x40 && b <= 0x7E:
		p.state = stateGround
		p.handleCSI(b)
	default:
		p.state = stateGround
	}
}

func (p *Parser) processOSC(b byte) {
	switch b {
	case 0x07, 0x9C: // BEL, ST
		p.handleOSC()
		p.state = stateGround
	case 0x1B: // ESC \ terminates
		p.handleOSC()
		p.enter(stateEscape)
	default:
		if len(p.osc) < maxOSC {
			p.osc = append(p.osc, b)
		}
	}
}

func (p *Parser) processDCS(b byte) {
	switch b {
	case 0x1B:
		p.enter(stateEscape)
	case 0x9C:
		p.state = stateGround
	}
}

func (p *Parser) handleCSI(final byte) {
	if p.private != 0 {
		p.handlePrivate(final)
		return
	}
	if len(p.inter) > 0 {
		p.unknown(p.csiString(final))
		return
	}

	w := p.w
	switch final {
	case 'A': // CUU
		w.MoveBy(0, -p.param(0, 1))
	case 'B', 'e': // CUD, VPR
		w.MoveBy(0, p.param(0, 1))
	case 'C', 'a': // CUF, HPR
		w.MoveBy(p.param(0, 1), 0)
	case 'D': // CUB
		w.MoveBy(-p.param(0, 1), 0)
	case 'E': // CNL
		w.MoveTo(0, w.Cursor().Y+p.param(0, 1))
	case 'F': // CPL
		w.MoveTo(0, w.Cursor().Y-p.param(0, 1))
	case 'G', '`': // CHA, HPA
		w.MoveTo(p.param(0, 1)-1, w.Cursor().Y)
	case 'd': // VPA
		w.MoveTo(w.Cursor().X, p.param(0, 1)-1)
	case 'H', 'f': // CUP, HVP
		w.MoveTo(p.param(1, 1)-1, p.param(0, 1)-1)
	case 'J': // ED
		p.fail(w.EraseDisplay(p.param(0, 0)))
	case 'K': // EL
		p.fail(w.EraseLine(p.param(0, 0)))
	case 'X': // ECH
		p.fail(w.EraseChars(p.param(0, 1)))
	case 'S': // SU
		p.fail(w.ScrollUp(p.param(0, 1)))
	case 'm': // SGR
		p.handleSGR()
	case 's': // SCOSC
		w.SaveCursor()
	case 'u': // SCORC
		w.RestoreCursor()
	case 'n', 'c', 'r', 't':
		// Reports and margins are not supported.
	default:
		p.unknown(p.csiString(final))
	}
}

func (p *Parser) handlePrivate(final byte) {
	if p.private != '?' || (final != 'h' && final != 'l') {
		p.unknown(p.csiString(final))
		return
	}
	set := final == 'h'
	for _, mode := range p.params {
		switch mode {
		case 7: // DECAWM
			p.w.SetAutowrap(set)
		case 1, 12, 25, 2004:
			// Cursor keys, blinking, visibility and bracketed paste are
			// input or rendering concerns.
		default:
			p.unknown(p.csiString(final))
		}
	}
}

func (p *Parser) handleOSC() {
	cmdStr, value, _ := strings.Cut(string(p.osc), ";")
	cmd, err := strconv.Atoi(cmdStr)
	if err != nil {
		p.unknown("OSC " + string(p.osc))
		return
	}

	switch cmd {
	case 0, 2: // icon name and title, title
		if p.onTitle != nil {
			p.onTitle(value)
		}
	case 1: // icon name
	case 8: // hyperlink: params ; URI
		params, uri, ok := strings.Cut(value, ";")
		if !ok {
			p.unknown("OSC 8;" + value)
			return
		}
		p.fail(p.w.StartHyperlink(linkID(params), uri))
	default:
		if p.onOSC != nil {
			p.onOSC(cmd, value)
		}
	}
}

// linkID extracts id= from colon-separated OSC 8 parameters.
func linkID(params string) string {
	for _, kv := range strings.Split(params, ":") {
		if v, ok := strings.CutPrefix(kv, "id="); ok {
			return v
		}
	}
	return ""
}

func (p *Parser) param(index, defaultValue int) int {
	if index < len(p.params) && p.params[index] > 0 {
		return p.params[index]
	}
	return defaultValue
}

func (p *Parser) unknown(seq string) {
	if p.onUnknown != nil {
		p.onUnknown(seq)
		return
	}
	p.w.log.Debug("unhandled sequence", zap.String("seq", seq))
}

func (p *Parser) csiString(final byte) string {
	var b strings.Builder
	b.WriteString("CSI ")
	if p.private != 0 {
		b.WriteByte(p.private)
	}
	for i, v := range p.params {
		if i > 0 {
			if p.sub[i] {
				b.WriteByte(':')
			} else {
				b.WriteByte(';')
			}
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.Write(p.inter)
	b.WriteByte(final)
	return b.String()
}
