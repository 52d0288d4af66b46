// Package host implements the hosting environment contract around the
// engine: it consumes instructions from a durable stream one at a time,
// serializes slot access with a distributed lock, loads slot bytes into
// in-memory growth-only slots, dispatches through the program, and persists
// staged writes only when the handler succeeded. A handler error leaves the
// persisted state untouched.
package host

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/predledger/internal/domain"
	"github.com/alanyoungcy/predledger/internal/program"
	"github.com/alanyoungcy/predledger/internal/slot"
)

// Envelope is the JSON wrapper instructions travel in on the stream. Data is
// the hex-encoded opcode byte plus codec-encoded parameters. Signer identity
// verification happens upstream; the envelope's signer is trusted here.
type Envelope struct {
	Signer string `json:"signer"`
	Target string `json:"target,omitempty"`
	Height int64  `json:"height"`
	Data   string `json:"data"`
}

// Config holds the host loop parameters.
type Config struct {
	StateSlot    string
	MintSlot     string
	StreamStart  string
	ReadBatch    int
	PollInterval time.Duration
	LockTTL      time.Duration
}

// Host runs the call-serial read-validate-mutate-encode-write cycle.
type Host struct {
	cfg      Config
	prog     *program.Program
	slots    domain.SlotStore
	locks    domain.LockManager
	stream   domain.InstructionStream
	audit    domain.AuditStore
	archiver domain.Archiver
	logger   *slog.Logger

	lastID string
}

// New creates a Host. The archiver may be nil when snapshots are disabled.
func New(
	cfg Config,
	prog *program.Program,
	slots domain.SlotStore,
	locks domain.LockManager,
	stream domain.InstructionStream,
	audit domain.AuditStore,
	archiver domain.Archiver,
	logger *slog.Logger,
) *Host {
	start := cfg.StreamStart
	if start == "" {
		start = "0"
	}
	return &Host{
		cfg:      cfg,
		prog:     prog,
		slots:    slots,
		locks:    locks,
		stream:   stream,
		audit:    audit,
		archiver: archiver,
		logger:   logger.With(slog.String("component", "host")),
		lastID:   start,
	}
}

// Run consumes the instruction stream until the context is cancelled.
// Instructions are applied strictly in stream order; a rejected instruction
// is logged and audited, then the loop moves on. Only infrastructure
// failures (store, lock, stream) stop the loop.
func (h *Host) Run(ctx context.Context) error {
	h.logger.InfoContext(ctx, "instruction loop starting",
		slog.String("start_id", h.lastID),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		messages, err := h.stream.Read(ctx, h.lastID, h.cfg.ReadBatch)
		if err != nil {
			return fmt.Errorf("host: read stream: %w", err)
		}
		if len(messages) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.cfg.PollInterval):
			}
			continue
		}

		for _, msg := range messages {
			if err := h.apply(ctx, msg); err != nil {
				if errors.Is(err, domain.ErrLockHeld) {
					// Another host holds the slot; retry the same message
					// after the poll interval without advancing the cursor.
					select {
					case <-ctx.Done():
						return ctx.Err()
					case <-time.After(h.cfg.PollInterval):
					}
					break
				}
				return err
			}
			h.lastID = msg.ID
		}
	}
}

// apply executes one stream message end to end. Handler rejections are
// recorded and swallowed; the returned error is reserved for infrastructure
// failures that must stop the loop.
func (h *Host) apply(ctx context.Context, msg domain.StreamMessage) error {
	var env Envelope
	if err := json.Unmarshal(msg.Payload, &env); err != nil {
		h.logger.WarnContext(ctx, "discarding malformed envelope",
			slog.String("stream_id", msg.ID),
			slog.String("error", err.Error()),
		)
		return nil
	}

	result, err := h.Apply(ctx, env)
	if err != nil {
		return err
	}

	detail := map[string]any{
		"stream_id": msg.ID,
		"op":        result.Op.String(),
		"signer":    env.Signer,
		"code":      result.Code,
	}
	if result.Err != nil {
		detail["error"] = result.Err.Error()
	}
	if auditErr := h.audit.Log(ctx, "instruction_applied", detail); auditErr != nil {
		h.logger.WarnContext(ctx, "audit log failed",
			slog.String("error", auditErr.Error()),
		)
	}
	return nil
}

// Result describes the outcome of one applied instruction.
type Result struct {
	Op   program.Opcode
	Code uint32
	// Err is the handler's domain error, nil on success.
	Err error
}

// Apply runs a single instruction envelope: acquire the locks for the slots
// the opcode touches, load them, dispatch, and persist dirty slots only when
// the handler succeeded. The returned error reports infrastructure failures;
// handler rejections come back inside the Result.
func (h *Host) Apply(ctx context.Context, env Envelope) (Result, error) {
	data, err := hex.DecodeString(env.Data)
	if err != nil || len(data) == 0 {
		return Result{Code: program.CodeDecodeError, Err: domain.ErrDecode}, nil
	}
	op := program.Opcode(data[0])

	signer, err := domain.ParseIdentity(env.Signer)
	if err != nil {
		return Result{Op: op, Code: program.CodeDecodeError, Err: domain.ErrDecode}, nil
	}

	needState, needMint := slotsFor(op)

	// Lock order is fixed (state before mint) so concurrent hosts cannot
	// deadlock.
	var unlocks []func()
	defer func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}()

	var state, mint *slot.Memory
	if needState {
		s, unlock, err := h.checkout(ctx, h.cfg.StateSlot)
		if err != nil {
			return Result{Op: op}, err
		}
		unlocks = append(unlocks, unlock)
		state = s
	}
	if needMint {
		m, unlock, err := h.checkout(ctx, h.cfg.MintSlot)
		if err != nil {
			return Result{Op: op}, err
		}
		unlocks = append(unlocks, unlock)
		mint = m
	}

	accounts, err := h.accountsFor(op, env, signer, state, mint)
	if err != nil {
		return Result{Op: op, Code: program.CodeDecodeError, Err: err}, nil
	}

	if procErr := h.prog.Process(accounts, data, env.Height); procErr != nil {
		h.logger.WarnContext(ctx, "instruction rejected",
			slog.String("op", op.String()),
			slog.String("signer", env.Signer),
			slog.String("error", procErr.Error()),
		)
		// Staged writes are discarded with the in-memory slots; persisted
		// state is untouched.
		return Result{Op: op, Code: program.Code(procErr), Err: procErr}, nil
	}

	if state != nil && state.Dirty() {
		if err := h.slots.Save(ctx, h.cfg.StateSlot, state.Bytes()); err != nil {
			return Result{Op: op}, fmt.Errorf("host: save state slot: %w", err)
		}
	}
	if mint != nil && mint.Dirty() {
		if err := h.slots.Save(ctx, h.cfg.MintSlot, mint.Bytes()); err != nil {
			return Result{Op: op}, fmt.Errorf("host: save mint slot: %w", err)
		}
	}

	return Result{Op: op, Code: program.CodeOK}, nil
}

// checkout locks a slot key and loads its bytes into a memory slot. A slot
// that has never been saved starts zero-length, which the codec's bootstrap
// rule handles.
func (h *Host) checkout(ctx context.Context, key string) (*slot.Memory, func(), error) {
	unlock, err := h.locks.Acquire(ctx, key, h.cfg.LockTTL)
	if err != nil {
		return nil, nil, err
	}

	data, err := h.slots.Load(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrSlotNotFound) {
		unlock()
		return nil, nil, fmt.Errorf("host: load slot %s: %w", key, err)
	}
	return slot.NewMemory(data), unlock, nil
}

// slotsFor reports which storage slots an opcode touches.
func slotsFor(op program.Opcode) (state, mint bool) {
	switch op {
	case program.OpCreateEvent, program.OpCloseEvent, program.OpResolveEvent:
		return true, false
	case program.OpPlaceBet, program.OpClaimWinnings:
		return true, true
	case program.OpInitializeMint, program.OpMintTokens, program.OpBurnTokens:
		return false, true
	default:
		return false, false
	}
}

// accountsFor builds the per-opcode account list in the documented order.
func (h *Host) accountsFor(op program.Opcode, env Envelope, signer domain.Identity, state, mint *slot.Memory) ([]*domain.Account, error) {
	programID := h.prog.ID()
	stateAcct := &domain.Account{Key: programID, Owner: programID, Slot: state}
	mintAcct := &domain.Account{Key: programID, Owner: programID, Slot: mint}
	signerAcct := &domain.Account{Key: signer, IsSigner: true}

	switch op {
	case program.OpCreateEvent, program.OpCloseEvent, program.OpResolveEvent:
		return []*domain.Account{stateAcct, signerAcct}, nil
	case program.OpPlaceBet, program.OpClaimWinnings:
		return []*domain.Account{stateAcct, mintAcct, signerAcct}, nil
	case program.OpInitializeMint, program.OpBurnTokens:
		return []*domain.Account{mintAcct, signerAcct}, nil
	case program.OpMintTokens:
		target, err := domain.ParseIdentity(env.Target)
		if err != nil {
			return nil, fmt.Errorf("host: mint target: %w", domain.ErrDecode)
		}
		return []*domain.Account{mintAcct, signerAcct, {Key: target}}, nil
	default:
		return nil, fmt.Errorf("host: unknown opcode %d: %w", uint8(op), domain.ErrDecode)
	}
}

// Snapshot archives the current contents of both slots. Slots that have
// never been saved are skipped.
func (h *Host) Snapshot(ctx context.Context) error {
	if h.archiver == nil {
		return nil
	}
	for _, key := range []string{h.cfg.StateSlot, h.cfg.MintSlot} {
		data, err := h.slots.Load(ctx, key)
		if errors.Is(err, domain.ErrSlotNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("host: load slot %s for snapshot: %w", key, err)
		}

		objectKey, err := h.archiver.Archive(ctx, key, data)
		if err != nil {
			return fmt.Errorf("host: archive slot %s: %w", key, err)
		}
		h.logger.InfoContext(ctx, "slot snapshot archived",
			slog.String("slot", key),
			slog.String("object", objectKey),
			slog.Int("bytes", len(data)),
		)
	}
	return nil
}
