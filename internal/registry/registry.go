package registry

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"pokeduel/internal/game"
	"pokeduel/internal/room"
	"pokeduel/internal/storage"
	"pokeduel/internal/types"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
)

const seatsPerRoom = 2

type Msg interface{ isRegistryMsg() }

// CreateRoom creates a room and seats the creator in it.
type CreateRoom struct {
	ConnID string
	Outbox chan types.ServerMessage
	Reply  chan JoinReply
}

func (CreateRoom) isRegistryMsg() {}

// JoinRoom seats a connection in an existing room. Codes are matched
// case-insensitively.
type JoinRoom struct {
	Code   string
	ConnID string
	Outbox chan types.ServerMessage
	Reply  chan JoinReply
}

func (JoinRoom) isRegistryMsg() {}

// CreateEmpty creates a room without seating anyone, for the REST creation
// path. The room expires if nobody joins it.
type CreateEmpty struct {
	Reply chan JoinReply
}

func (CreateEmpty) isRegistryMsg() {}

// Leave unseats a connection; an emptied room is destroyed.
type Leave struct{ ConnID string }

func (Leave) isRegistryMsg() {}

// Route resolves a connection to its room, the only lookup path from a
// transport identity to a session.
type Route struct {
	ConnID string
	Reply  chan *room.Room
}

func (Route) isRegistryMsg() {}

type Shutdown struct{}

func (Shutdown) isRegistryMsg() {}

// GetView reflects internal state without data races; test-only.
type GetView struct {
	Reply chan View
}

func (GetView) isRegistryMsg() {}

type View struct {
	NumRooms int
	NumConns int
}

// JoinReply is the structured result of a create/join attempt.
type JoinReply struct {
	Code string
	Seat int
	Err  error
}

// Registry owns the process-wide room bookkeeping: code→room, conn→room and
// seat counts. One goroutine drains the inbox, so concurrent connects from
// many clients serialize here while each room's game runs on its own
// goroutine.
type Registry struct {
	inbox     chan Msg
	rooms     map[string]*room.Room
	occupancy map[string]int       // code -> seated connections
	conns     map[string]string    // connID -> code
	idle      map[string]time.Time // rooms created but never joined

	board  *game.Board
	store  *storage.Store
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRegistry starts the registry goroutine. Rooms it creates start their
// games on the given board. The store may be nil.
func NewRegistry(parent context.Context, board *game.Board, store *storage.Store, logger *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	reg := &Registry{
		inbox:     make(chan Msg, 64),
		rooms:     make(map[string]*room.Room),
		occupancy: make(map[string]int),
		conns:     make(map[string]string),
		idle:      make(map[string]time.Time),
		board:     board,
		store:     store,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
	}
	go reg.loop()
	return reg
}

// Inbox exposes the message channel to the transport and HTTP layers.
func (reg *Registry) Inbox() chan<- Msg { return reg.inbox }

// Rooms created over REST but never joined are swept after this long.
const idleRoomExpiry = 10 * time.Minute

func (reg *Registry) loop() {
	sweep := time.NewTicker(time.Minute)
	defer sweep.Stop()

	for {
		select {
		case <-reg.ctx.Done():
			reg.shutdown()
			return

		case <-sweep.C:
			reg.sweepIdleRooms()

		case m := <-reg.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- reg.create(msg.ConnID, msg.Outbox)
			case CreateEmpty:
				code, err := reg.createRoom()
				msg.Reply <- JoinReply{Code: code, Err: err}
			case JoinRoom:
				msg.Reply <- reg.join(msg.Code, msg.ConnID, msg.Outbox)
			case Leave:
				reg.leave(msg.ConnID)
			case Route:
				msg.Reply <- reg.roomFor(msg.ConnID)
			case GetView:
				msg.Reply <- View{NumRooms: len(reg.rooms), NumConns: len(reg.conns)}
			case Shutdown:
				reg.shutdown()
				return
			}
		}
	}
}

func (reg *Registry) create(connID string, outbox chan types.ServerMessage) JoinReply {
	code, err := reg.createRoom()
	if err != nil {
		return JoinReply{Err: err}
	}
	return reg.join(code, connID, outbox)
}

func (reg *Registry) createRoom() (string, error) {
	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			return "", err
		}
		if _, taken := reg.rooms[c]; !taken {
			code = c
			break
		}
		reg.logger.Debug("room code collision, regenerating", zap.String("code", c))
	}

	reg.rooms[code] = room.NewRoom(reg.ctx, code, reg.board, reg.store, reg.logger)
	reg.idle[code] = time.Now()
	reg.logger.Info("room created", zap.String("room", code))
	return code, nil
}

func (reg *Registry) sweepIdleRooms() {
	for code, createdAt := range reg.idle {
		if time.Since(createdAt) < idleRoomExpiry {
			continue
		}
		if rm := reg.rooms[code]; rm != nil {
			rm.Inbox() <- room.Shutdown{}
		}
		delete(reg.rooms, code)
		delete(reg.occupancy, code)
		delete(reg.idle, code)
		reg.logger.Info("idle room expired", zap.String("room", code))
	}
}

func (reg *Registry) join(code, connID string, outbox chan types.ServerMessage) JoinReply {
	code = strings.ToUpper(code)
	rm, ok := reg.rooms[code]
	if !ok {
		return JoinReply{Err: ErrRoomNotFound}
	}
	if reg.occupancy[code] >= seatsPerRoom {
		return JoinReply{Err: ErrRoomFull}
	}

	seat := reg.occupancy[code] + 1
	reg.occupancy[code] = seat
	reg.conns[connID] = code
	delete(reg.idle, code)

	rm.Inbox() <- room.Join{ConnID: connID, Seat: seat, Outbox: outbox}
	reg.logger.Info("player joined room", zap.String("room", code), zap.Int("seat", seat))
	return JoinReply{Code: code, Seat: seat}
}

func (reg *Registry) leave(connID string) {
	code, ok := reg.conns[connID]
	if !ok {
		return
	}
	delete(reg.conns, connID)

	rm := reg.rooms[code]
	if rm == nil {
		return
	}
	rm.Inbox() <- room.Leave{ConnID: connID}

	reg.occupancy[code]--
	if reg.occupancy[code] <= 0 {
		rm.Inbox() <- room.Shutdown{}
		delete(reg.rooms, code)
		delete(reg.occupancy, code)
		reg.logger.Info("room destroyed", zap.String("room", code))
	}
}

func (reg *Registry) roomFor(connID string) *room.Room {
	code, ok := reg.conns[connID]
	if !ok {
		return nil
	}
	return reg.rooms[code]
}

func (reg *Registry) shutdown() {
	for code, rm := range reg.rooms {
		rm.Inbox() <- room.Shutdown{}
		delete(reg.rooms, code)
	}
	clear(reg.occupancy)
	clear(reg.conns)
	clear(reg.idle)
	reg.cancel()
}
