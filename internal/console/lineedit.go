package console

// Input bytes with editing meaning.
const (
	keyNUL = 0x00
	keyETX = 0x03 // Ctrl-C
	keyEOT = 0x04 // Ctrl-D
	keyBS  = 0x08
	keyLF  = '\n'
	keyCR  = '\r'
	keyNAK = 0x15 // Ctrl-U
	keyESC = 0x1b
	keyDEL = 0x7f

	telnetSE   = 240
	telnetSB   = 250
	telnetWILL = 251
	telnetDONT = 254
	telnetIAC  = 255
)

type decodeState int

const (
	stateData decodeState = iota
	stateCR
	stateIAC
	stateIACOption
	stateSubneg
	stateSubnegIAC
	stateESC
	stateCSI
)

// editResult tells the session what one input byte produced.
type editResult int

const (
	editPending editResult = iota
	editLine
	editCancel
	editHangup
)

// lineEditor accumulates client bytes into lines. Telnet command sequences
// and ANSI escapes are consumed and dropped.
type lineEditor struct {
	buf    []byte
	cursor int
	max    int
	state  decodeState
}

func newLineEditor(max int) *lineEditor {
	if max <= 0 {
		max = DefaultMaxLineLength
	}
	return &lineEditor{buf: make([]byte, 0, 128), max: max}
}

// Feed consumes one byte. On editLine the completed line is returned and the
// buffer is reset.
func (e *lineEditor) Feed(b byte) (string, editResult) {
	switch e.state {
	case stateCR:
		e.state = stateData
		if b == keyLF || b == keyNUL {
			return "", editPending
		}
	case stateIAC:
		switch {
		case b == telnetSB:
			e.state = stateSubneg
		case b >= telnetWILL && b <= telnetDONT:
			e.state = stateIACOption
		default:
			e.state = stateData
		}
		return "", editPending
	case stateIACOption:
		e.state = stateData
		return "", editPending
	case stateSubneg:
		if b == telnetIAC {
			e.state = stateSubnegIAC
		}
		return "", editPending
	case stateSubnegIAC:
		if b == telnetSE {
			e.state = stateData
		} else {
			e.state = stateSubneg
		}
		return "", editPending
	case stateESC:
		if b == '[' {
			e.state = stateCSI
		} else {
			e.state = stateData
		}
		return "", editPending
	case stateCSI:
		if b >= 0x40 && b <= 0x7e {
			e.state = stateData
		}
		return "", editPending
	}

	switch b {
	case keyCR:
		e.state = stateCR
		return e.take(), editLine
	case keyLF:
		return e.take(), editLine
	case keyBS, keyDEL:
		e.backspace()
	case keyNAK:
		e.reset()
	case keyETX:
		e.reset()
		return "", editCancel
	case keyEOT:
		if len(e.buf) == 0 {
			return "", editHangup
		}
	case telnetIAC:
		e.state = stateIAC
	case keyESC:
		e.state = stateESC
	default:
		if b < 0x20 {
			return "", editPending
		}
		e.insert(b)
	}
	return "", editPending
}

func (e *lineEditor) insert(b byte) {
	if len(e.buf) >= e.max {
		return
	}
	e.buf = append(e.buf, 0)
	copy(e.buf[e.cursor+1:], e.buf[e.cursor:])
	e.buf[e.cursor] = b
	e.cursor++
}

// backspace never erases past the start of the current line.
func (e *lineEditor) backspace() {
	if e.cursor == 0 {
		return
	}
	copy(e.buf[e.cursor-1:], e.buf[e.cursor:])
	e.buf = e.buf[:len(e.buf)-1]
	e.cursor--
}

func (e *lineEditor) take() string {
	line := string(e.buf)
	e.reset()
	return line
}

func (e *lineEditor) reset() {
	e.buf = e.buf[:0]
	e.cursor = 0
}
