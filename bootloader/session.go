package bootloader

import (
	"context"
	"fmt"

	"github.com/moffa90/go-avrfuse/fuse"
	"github.com/moffa90/go-avrfuse/protocol"
)

// Snapshot holds the register bytes read from the device when a session is
// opened. They are captured once and never updated by writes.
type Snapshot map[fuse.Register]byte

// Session edits the lock and fuse registers of one device over an
// exclusively owned transport.
//
// A Session is not safe for concurrent use: the bootloader protocol has no
// request tagging, so writes must not interleave.
type Session struct {
	client   *protocol.Client
	profile  *fuse.Profile
	original Snapshot
	config   Config
}

// New creates a Session for profile on transport t. original holds the
// register bytes read by the caller before the session is opened; it may be
// partial, registers without a captured byte are always written.
//
// Example:
//
//	sess, err := bootloader.New(port, fuse.ATmega88, bootloader.Snapshot{
//	    fuse.RegisterLock:         0xFF,
//	    fuse.RegisterFuse:         0x62,
//	    fuse.RegisterHighFuse:     0xDF,
//	    fuse.RegisterExtendedFuse: 0xF9,
//	})
func New(t protocol.Transport, profile *fuse.Profile, original Snapshot, opts ...Option) (*Session, error) {
	if t == nil {
		return nil, fmt.Errorf("transport cannot be nil")
	}
	if profile == nil {
		return nil, fmt.Errorf("profile cannot be nil")
	}

	snap := make(Snapshot, len(original))
	for reg, b := range original {
		if !profile.Has(reg) {
			return nil, &SnapshotError{Profile: profile.Name, Register: reg}
		}
		snap[reg] = b
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		client:   protocol.NewClient(t, protocol.WithAckTimeout(cfg.ReadTimeout)),
		profile:  profile,
		original: snap,
		config:   cfg,
	}, nil
}

// CommandFor returns the protocol command that writes reg.
func CommandFor(reg fuse.Register) (byte, error) {
	switch reg {
	case fuse.RegisterLock:
		return protocol.CmdWriteLock, nil
	case fuse.RegisterFuse:
		return protocol.CmdWriteFuse, nil
	case fuse.RegisterHighFuse:
		return protocol.CmdWriteHighFuse, nil
	case fuse.RegisterExtendedFuse:
		return protocol.CmdWriteExtendedFuse, nil
	default:
		return 0, fmt.Errorf("no write command for %s", reg)
	}
}

// Profile returns the device profile of the session.
func (s *Session) Profile() *fuse.Profile {
	return s.profile
}

// Original returns the byte captured for reg when the session was opened.
func (s *Session) Original(reg fuse.Register) (byte, bool) {
	b, ok := s.original[reg]
	return b, ok
}

// Decode returns the field values of the captured byte for reg.
func (s *Session) Decode(reg fuse.Register) (fuse.Values, error) {
	b, ok := s.original[reg]
	if !ok {
		if _, err := s.profile.Layout(reg); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("no captured value for %s register", reg)
	}
	return s.profile.Decode(reg, b)
}

// DecodeAll decodes every captured register.
func (s *Session) DecodeAll() (map[fuse.Register]fuse.Values, error) {
	out := make(map[fuse.Register]fuse.Values, len(s.original))
	for _, reg := range s.profile.Registers() {
		if _, ok := s.original[reg]; !ok {
			continue
		}
		v, err := s.Decode(reg)
		if err != nil {
			return nil, err
		}
		out[reg] = v
	}
	return out, nil
}

// WriteRegister sends value to reg unless it equals the byte captured when
// the session was opened. It returns whether a command was issued.
//
// The call blocks until the bootloader acknowledges the write or the read
// timeout expires. Nothing is retried.
func (s *Session) WriteRegister(ctx context.Context, reg fuse.Register, value byte) (bool, error) {
	if _, err := s.profile.Layout(reg); err != nil {
		return false, err
	}
	cmd, err := CommandFor(reg)
	if err != nil {
		return false, err
	}

	original, hasOriginal := s.original[reg]
	result := WriteResult{
		Register:    reg,
		Command:     cmd,
		Original:    original,
		HasOriginal: hasOriginal,
		Value:       value,
	}

	// Unchanged registers are not rewritten.
	if hasOriginal && value == original {
		s.logDebug("register unchanged, skipping write",
			"register", reg.String(),
			"value", fmt.Sprintf("0x%02X", value),
		)
		s.reportWrite(result)
		return false, nil
	}

	frame, err := protocol.BuildWriteCmd(cmd, value)
	if err != nil {
		return false, err
	}

	ack, err := s.client.Send(ctx, frame)
	if err != nil {
		s.logError("register write failed",
			"register", reg.String(),
			"value", fmt.Sprintf("0x%02X", value),
			"error", err.Error(),
		)
		return false, &WriteError{Register: reg, Value: value, Err: err}
	}

	s.logDebug("register written",
		"register", reg.String(),
		"command", string(rune(cmd)),
		"value", fmt.Sprintf("0x%02X", value),
		"ack", fmt.Sprintf("0x%02X", ack),
	)

	result.Written = true
	s.reportWrite(result)
	return true, nil
}

// Apply encodes values for reg and writes the result.
func (s *Session) Apply(ctx context.Context, reg fuse.Register, values fuse.Values) (bool, error) {
	raw, err := s.profile.Encode(reg, values)
	if err != nil {
		return false, &EncodeError{Register: reg, Err: err}
	}
	return s.WriteRegister(ctx, reg, raw)
}

// Pending encodes every register in regs and reports what ApplyAll would
// send, in write order, without touching the transport.
func (s *Session) Pending(regs map[fuse.Register]fuse.Values) ([]WriteResult, error) {
	results := make([]WriteResult, 0, len(regs))
	for reg := range regs {
		if !s.profile.Has(reg) {
			return nil, &fuse.UnsupportedRegisterError{Profile: s.profile.Name, Register: reg}
		}
	}

	for _, reg := range fuse.WriteOrder {
		v, ok := regs[reg]
		if !ok {
			continue
		}
		raw, err := s.profile.Encode(reg, v)
		if err != nil {
			return nil, &EncodeError{Register: reg, Err: err}
		}
		cmd, err := CommandFor(reg)
		if err != nil {
			return nil, err
		}

		original, hasOriginal := s.original[reg]
		results = append(results, WriteResult{
			Register:    reg,
			Command:     cmd,
			Original:    original,
			HasOriginal: hasOriginal,
			Value:       raw,
			Written:     !hasOriginal || raw != original,
		})
	}
	return results, nil
}

// ApplyAll encodes and writes several registers. Every register is encoded
// before anything is sent, so an encode error leaves the device untouched.
// Registers are written fuse, high, extended, then lock, and the first
// transport error stops the sequence.
func (s *Session) ApplyAll(ctx context.Context, regs map[fuse.Register]fuse.Values) ([]WriteResult, error) {
	planned, err := s.Pending(regs)
	if err != nil {
		return nil, err
	}

	results := make([]WriteResult, 0, len(planned))
	for _, p := range planned {
		written, err := s.WriteRegister(ctx, p.Register, p.Value)
		if err != nil {
			return results, err
		}
		p.Written = written
		results = append(results, p)
	}

	s.logInfo("registers applied",
		"device", s.profile.Name,
		"registers", len(results),
		"written", countWritten(results),
	)
	return results, nil
}

func countWritten(results []WriteResult) int {
	n := 0
	for _, r := range results {
		if r.Written {
			n++
		}
	}
	return n
}

// reportWrite calls the write callback if configured.
func (s *Session) reportWrite(result WriteResult) {
	if s.config.WriteCallback != nil {
		s.config.WriteCallback(result)
	}
}

// logDebug logs a debug message if a logger is configured.
func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (s *Session) logError(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Error(msg, keysAndValues...)
	}
}
