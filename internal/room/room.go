package room

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pokeduel/internal/game"
	"pokeduel/internal/storage"
	"pokeduel/internal/types"
)

// Room lifecycle states.
const (
	StateWaiting = "waiting"
	StatePlaying = "playing"
	StateEnded   = "ended"
)

type Msg interface{ isRoomMsg() }

// Join seats a connection. Seat assignment is the registry's job; the room
// trusts the seat it is handed.
type Join struct {
	ConnID string
	Seat   int
	Outbox chan types.ServerMessage // where this member receives events
}

func (Join) isRoomMsg() {}

type Leave struct{ ConnID string }

func (Leave) isRoomMsg() {}

// Select is a "select piece" intent; an empty PieceID clears the selection.
type Select struct {
	ConnID  string
	PieceID string
}

func (Select) isRoomMsg() {}

// Move is a "move piece" intent.
type Move struct {
	ConnID       string
	PieceID      string
	TargetSpotID string
}

func (Move) isRoomMsg() {}

type Shutdown struct{}

func (Shutdown) isRoomMsg() {}

// GetView reflects internal state without data races; test-only.
type GetView struct {
	Reply chan View
}

func (GetView) isRoomMsg() {}

type View struct {
	Code       string
	State      string
	NumMembers int
	Game       game.State
}

// Room owns one game session. A single goroutine drains the inbox, so
// session mutations are serialized per room; rooms never share state.
type Room struct {
	code        string
	state       string
	playerCount int

	inbox   chan Msg
	members map[string]chan types.ServerMessage
	seats   map[string]int // connID -> playerID
	order   []string       // connIDs in join order

	session *game.Session
	board   *game.Board

	store     *storage.Store
	matchID   uuid.UUID
	moveCount int

	logger *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRoom starts the room's goroutine. The store may be nil.
func NewRoom(parent context.Context, code string, board *game.Board, store *storage.Store, logger *zap.Logger) *Room {
	ctx, cancel := context.WithCancel(parent)

	r := &Room{
		code:        code,
		state:       StateWaiting,
		playerCount: 2,
		inbox:       make(chan Msg, 64),
		members:     make(map[string]chan types.ServerMessage),
		seats:       make(map[string]int),
		session:     game.NewSession(),
		board:       board,
		store:       store,
		logger:      logger.With(zap.String("room", code)),
		ctx:         ctx,
		cancel:      cancel,
	}

	go r.loop()
	return r
}

// Inbox exposes the message channel to the registry and transport layers.
func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Code returns the room's join code.
func (r *Room) Code() string { return r.code }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.handleLeave(msg)
			case Select:
				r.handleSelect(msg)
			case Move:
				r.handleMove(msg)
			case GetView:
				msg.Reply <- View{
					Code:       r.code,
					State:      r.state,
					NumMembers: len(r.members),
					Game:       r.session.State(),
				}
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	r.members[msg.ConnID] = msg.Outbox
	r.seats[msg.ConnID] = msg.Seat
	r.order = append(r.order, msg.ConnID)

	info := r.roomInfo()
	msg.Outbox <- types.ServerMessage{
		Type:             types.EvtRoomJoined,
		RoomID:           r.code,
		Room:             info,
		AssignedPlayerID: msg.Seat,
	}
	r.broadcastExcept(msg.ConnID, types.ServerMessage{Type: types.EvtPlayerJoined, RoomID: r.code, Room: info})

	if len(r.seats) == r.playerCount && r.state == StateWaiting {
		r.startGame()
	}
}

func (r *Room) startGame() {
	r.state = StatePlaying
	r.session.Initialize(r.board, r.playerCount)

	r.matchID = uuid.New()
	r.moveCount = 0
	if err := r.store.StartMatch(r.ctx, r.matchID, r.code); err != nil {
		r.logger.Warn("failed to persist match start", zap.Error(err))
	}

	r.logger.Info("game started")
	state := r.session.State()
	r.broadcast(types.ServerMessage{Type: types.EvtGameStarted, RoomID: r.code, State: &state})
}

func (r *Room) handleLeave(msg Leave) {
	if _, ok := r.members[msg.ConnID]; !ok {
		return
	}
	r.removeMember(msg.ConnID)

	// A disconnect mid-game abandons the match for everyone.
	if r.state == StatePlaying && r.session.Phase() == game.PhasePlaying {
		r.state = StateEnded
		if err := r.store.AbandonMatch(r.ctx, r.matchID, time.Now()); err != nil {
			r.logger.Warn("failed to persist match abandon", zap.Error(err))
		}
	}

	r.broadcast(types.ServerMessage{Type: types.EvtPlayerLeft, RoomID: r.code})
}

func (r *Room) handleSelect(msg Select) {
	seat, ok := r.seats[msg.ConnID]
	if !ok {
		return
	}

	if err := r.session.SelectPiece(seat, msg.PieceID); err != nil {
		r.sendError(msg.ConnID, err)
		return
	}

	state := r.session.State()
	r.broadcast(types.ServerMessage{Type: types.EvtGameStateUpdated, RoomID: r.code, State: &state})
}

func (r *Room) handleMove(msg Move) {
	seat, ok := r.seats[msg.ConnID]
	if !ok {
		return
	}

	result, err := r.session.MovePiece(seat, msg.PieceID, msg.TargetSpotID)
	if err != nil {
		r.sendError(msg.ConnID, err)
		return
	}

	r.moveCount++
	if err := r.store.RecordMove(r.ctx, r.matchID, r.moveCount, seat, msg.PieceID, msg.TargetSpotID, result.Battle, result.Won); err != nil {
		r.logger.Warn("failed to persist move", zap.Error(err))
	}

	state := r.session.State()
	r.broadcast(types.ServerMessage{
		Type:   types.EvtMoveMade,
		RoomID: r.code,
		Move:   &types.MovePayload{Success: true, Battle: result.Battle, Won: result.Won, GameState: &state},
	})

	if result.Won {
		r.state = StateEnded
		if err := r.store.CompleteMatch(r.ctx, r.matchID, seat, time.Now()); err != nil {
			r.logger.Warn("failed to persist match completion", zap.Error(err))
		}
		r.logger.Info("game ended", zap.Int("winner", seat))
		r.broadcast(types.ServerMessage{Type: types.EvtGameEnded, RoomID: r.code, State: &state})
	}
}

func (r *Room) sendError(connID string, err error) {
	out, ok := r.members[connID]
	if !ok {
		return
	}
	select {
	case out <- types.ServerMessage{Type: types.EvtError, RoomID: r.code, Error: err.Error()}:
	default:
		// Slow member; the next broadcast will drop them.
	}
}

func (r *Room) roomInfo() *types.RoomInfo {
	return &types.RoomInfo{
		RoomID:      r.code,
		PlayerCount: len(r.seats),
		Players:     append([]string(nil), r.order...),
		State:       r.state,
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	r.broadcastExcept("", msg)
}

func (r *Room) broadcastExcept(skipConnID string, msg types.ServerMessage) {
	for id, ch := range r.members {
		if id == skipConnID {
			continue
		}
		select {
		case ch <- msg:
		default:
			// Member is slow/full - drop them. The transport owns the
			// channel's lifecycle, so no close here.
			r.removeMember(id)
		}
	}
}

func (r *Room) removeMember(connID string) {
	delete(r.members, connID)
	delete(r.seats, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Room) shutdown() {
	clear(r.members)
	clear(r.seats)
	r.order = nil
	r.cancel()
}
