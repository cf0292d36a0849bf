package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"
)

const (
	maxSessions      = 100
	broadcastEvery   = TickRate / BroadcastRate
	leaderboardShown = 8
)

// Peer is where a session sends its output. SendRaw takes bytes that are
// already framed, such as EncodeFrame output.
type Peer interface {
	SendJSON(msg interface{})
	SendRaw(data []byte)
}

// Session owns one Game and runs its loop. Every access to the game goes
// through the session lock.
type Session struct {
	ID string

	mu      sync.Mutex
	game    *Game
	peer    Peer
	ctrl    Peer
	backend *Backend
	tasks   *TaskQueue
	pseudo  string // "" while a guest
	chat    ChatLimiter
	ticks   uint64

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewSession creates a session at the login screen. It does not start the loop.
func NewSession(id string, peer Peer, backend *Backend, t Tuning, seed int64) *Session {
	s := &Session{
		ID:      id,
		peer:    peer,
		backend: backend,
		tasks:   NewTaskQueue(backend.timeout()),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.game = NewGame(t, rand.New(rand.NewSource(seed)), CueSender{peer: peer})
	return s
}

// Run is the fixed-rate tick loop; it returns after Stop
func (s *Session) Run() {
	defer close(s.done)
	cancelChat := s.subscribeChat()
	defer cancelChat()

	ticker := time.NewTicker(time.Second / TickRate)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Step()
		case <-s.stop:
			s.tasks.Close()
			return
		}
	}
}

// Stop terminates the loop
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Done is closed once Run has returned
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Step runs one tick: backend completions first, then the simulation, then output
func (s *Session) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, apply := range s.tasks.Drain(s.game.Epoch()) {
		s.safely("completion", apply)
	}
	s.safely("tick", s.game.Update)
	s.ticks++

	offers := false
	for _, ev := range s.game.DrainEvents() {
		s.handleEvent(ev)
		if ev.Kind == EventPurchased || (ev.Kind == EventStateChanged && ev.Phase == PhaseShop.String()) {
			offers = true
		}
	}
	if offers {
		s.sendOffers()
	}

	if s.ticks%broadcastEvery == 0 {
		frame, err := EncodeFrame(s.game.Snapshot())
		if err != nil {
			log.Printf("session %s: encode frame: %v", s.ID, err)
			return
		}
		s.peer.SendRaw(frame)
	}
}

// safely runs fn and turns a panic into a finished run
func (s *Session) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("session %s: %s panic: %v", s.ID, what, r)
			s.game.Abort()
		}
	}()
	fn()
}

func (s *Session) handleEvent(ev Event) {
	s.peer.SendJSON(Envelope{T: MsgEvent, Data: ev})

	a := s.backend.analytics()
	switch ev.Kind {
	case EventWaveStarted:
		if ev.Wave == 1 {
			a.Track(EvtRunStart, s.pseudo, s.ID, nil)
		}
	case EventWaveCleared:
		a.Track(EvtWaveCleared, s.pseudo, s.ID, map[string]int{"wave": ev.Wave})
	case EventPurchased:
		a.Track(EvtPurchase, s.pseudo, s.ID, map[string]interface{}{"id": ev.Label, "cost": ev.Value})
	case EventEnemyKilled:
		if ev.Label == Boss.String() {
			a.Track(EvtBossKill, s.pseudo, s.ID, map[string]int{"wave": ev.Wave})
		}
	case EventPlayerDied:
		a.Track(EvtRunEnd, s.pseudo, s.ID, map[string]int{"wave": ev.Wave, "kills": ev.Value})
		s.recordMatch(ev.Value, ev.Wave)
	}
}

func (s *Session) notice(msg string) {
	s.peer.SendJSON(Envelope{T: MsgNotice, Data: NoticeMsg{Msg: msg}})
}

func (s *Session) sendError(msg string) {
	s.peer.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

func (s *Session) sendOffers() {
	s.peer.SendJSON(Envelope{T: MsgOffers, Data: OffersMsg{Gold: s.game.Gold(), Offers: s.game.Offers()}})
}

// recordMatch saves the finished run off-loop. The save is not tied to the
// run: it must land even if the player restarts before it returns.
func (s *Session) recordMatch(kills, wave int) {
	b := s.backend
	pseudo := s.pseudo
	if pseudo == "" || b == nil || b.Stats == nil {
		return
	}
	s.tasks.Submit(s.game.Epoch(), false, func(ctx context.Context) func() {
		if err := b.Stats.RecordMatch(ctx, pseudo, kills, wave); err != nil {
			log.Printf("session %s: record match for %s: %v", s.ID, pseudo, err)
			return func() { s.notice("could not save your score") }
		}
		unlocked := CheckAchievements(ctx, b.Achievements, pseudo, wave)
		board, err := b.Leaderboard(ctx, SortBestScore, leaderboardShown)
		return func() {
			for _, a := range unlocked {
				s.notice("Achievement unlocked: " + a.Name)
				b.analytics().Track(EvtAchievement, pseudo, s.ID, map[string]string{"id": a.ID})
			}
			s.sendLeaderboard(SortBestScore, board, err)
		}
	})
}

func (s *Session) sendLeaderboard(key string, entries []LeaderboardEntry, err error) {
	msg := LeaderboardMsg{Key: key, Entries: entries}
	if err != nil {
		log.Printf("session %s: leaderboard %s: %v", s.ID, key, err)
		msg.Err = "leaderboard unavailable"
	}
	if msg.Entries == nil {
		msg.Entries = []LeaderboardEntry{}
	}
	s.peer.SendJSON(Envelope{T: MsgLeaderboard, Data: msg})
}

// subscribeChat forwards the shared chat to the peer until the returned func is called
func (s *Session) subscribeChat() func() {
	b := s.backend
	if b == nil || b.Chat == nil {
		return func() {}
	}
	ctx, cancelCtx := context.WithTimeout(context.Background(), b.timeout())
	updates, cancel, err := b.Chat.SubscribeRecent(ctx, ChatHistoryLen)
	cancelCtx()
	if err != nil {
		log.Printf("session %s: chat subscribe: %v", s.ID, err)
		s.notice("chat unavailable")
		return func() {}
	}
	quit := make(chan struct{})
	go func() {
		for {
			select {
			case msgs := <-updates:
				s.peer.SendJSON(Envelope{T: MsgChat, Data: ChatMsg{Messages: msgs}})
			case <-quit:
				return
			}
		}
	}()
	return func() {
		close(quit)
		cancel()
	}
}

// --- Commands, called from connection goroutines ---

// with runs fn under the session lock
func (s *Session) with(fn func(g *Game)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.game)
}

func (s *Session) Input(k Keys) {
	s.with(func(g *Game) { g.SetKeys(k) })
}

func (s *Session) Resize(w, h float64) {
	s.with(func(g *Game) { g.Resize(w, h) })
}

func (s *Session) Start() bool {
	var ok bool
	s.with(func(g *Game) { ok = g.Start() })
	return ok
}

func (s *Session) Dash() bool {
	var ok bool
	s.with(func(g *Game) { ok = g.Dash() })
	return ok
}

func (s *Session) ToggleShop() bool {
	var ok bool
	s.with(func(g *Game) { ok = g.ToggleShop() })
	return ok
}

func (s *Session) Pause() bool {
	var ok bool
	s.with(func(g *Game) { ok = g.Pause() })
	return ok
}

func (s *Session) Resume() bool {
	var ok bool
	s.with(func(g *Game) { ok = g.Resume() })
	return ok
}

func (s *Session) Restart() bool {
	var ok bool
	s.with(func(g *Game) { ok = g.RequestRestart() })
	return ok
}

func (s *Session) Buy(id string) error {
	var err error
	s.with(func(g *Game) { _, err = g.Buy(id) })
	return err
}

// Phase reports the current run phase
func (s *Session) Phase() Phase {
	var p Phase
	s.with(func(g *Game) { p = g.Phase() })
	return p
}

// Pseudo returns the logged-in pseudo, "" for guests
func (s *Session) Pseudo() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pseudo
}

// PlayAsGuest leaves the login screen without an account
func (s *Session) PlayAsGuest() bool {
	var ok bool
	s.with(func(g *Game) {
		s.pseudo = ""
		ok = g.EnterMenu()
	})
	return ok
}

// signIn is applied on the loop once credentials were accepted
func (s *Session) signIn(p *Profile, token string) {
	s.pseudo = p.Pseudo
	s.game.EnterMenu()
	s.peer.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{Pseudo: p.Pseudo, Token: token, Profile: p}})
}

func (s *Session) auth() *Auth {
	if s.backend == nil {
		return nil
	}
	return s.backend.Auth
}

func (s *Session) epoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Epoch()
}

// CheckPseudo reports whether a pseudo has an account
func (s *Session) CheckPseudo(pseudo string) {
	a := s.auth()
	if a == nil {
		s.sendError(ErrNoBackend.Error())
		return
	}
	s.tasks.Submit(s.epoch(), false, func(ctx context.Context) func() {
		name, exists, err := a.Check(ctx, pseudo)
		return func() {
			if err != nil {
				s.sendError(err.Error())
				return
			}
			s.peer.SendJSON(Envelope{T: MsgChecked, Data: CheckedMsg{Pseudo: name, Exists: exists}})
		}
	})
}

// Register creates an account and signs in
func (s *Session) Register(pseudo, pin, confirm string) {
	a := s.auth()
	if a == nil {
		s.sendError(ErrNoBackend.Error())
		return
	}
	s.tasks.Submit(s.epoch(), false, func(ctx context.Context) func() {
		p, token, err := a.Register(ctx, pseudo, pin, confirm)
		return func() {
			if err != nil {
				s.sendError(err.Error())
				return
			}
			s.signIn(p, token)
		}
	})
}

// Login checks credentials and signs in
func (s *Session) Login(pseudo, pin, ip string) {
	a := s.auth()
	if a == nil {
		s.sendError(ErrNoBackend.Error())
		return
	}
	s.tasks.Submit(s.epoch(), false, func(ctx context.Context) func() {
		p, token, err := a.Login(ctx, pseudo, pin, ip)
		return func() {
			if err != nil {
				s.sendError(err.Error())
				return
			}
			s.signIn(p, token)
		}
	})
}

// ResumeToken signs in with a previously issued token
func (s *Session) ResumeToken(token string) error {
	a := s.auth()
	if a == nil {
		return ErrNoBackend
	}
	pseudo, err := a.ValidateToken(token)
	if err != nil {
		return err
	}
	s.with(func(g *Game) { s.signIn(&Profile{Pseudo: pseudo}, token) })
	return nil
}

// RequestStats opens the profile: the run pauses and the stats follow.
// The result is dropped if the run was reset meanwhile.
func (s *Session) RequestStats() error {
	b := s.backend
	s.mu.Lock()
	pseudo := s.pseudo
	if pseudo == "" {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if b == nil || b.Stats == nil {
		s.mu.Unlock()
		return ErrNoBackend
	}
	s.game.Pause()
	epoch := s.game.Epoch()
	s.mu.Unlock()

	s.tasks.Submit(epoch, true, func(ctx context.Context) func() {
		stats, err := b.Stats.FetchStats(ctx, pseudo)
		return func() {
			if err != nil || stats == nil {
				if err != nil {
					log.Printf("session %s: stats for %s: %v", s.ID, pseudo, err)
				}
				s.notice("profile unavailable")
				return
			}
			s.peer.SendJSON(Envelope{T: MsgStats, Data: stats})
		}
	})
	return nil
}

// RequestLeaderboard fetches a ranking for the peer
func (s *Session) RequestLeaderboard(key string, limit int) {
	if key != SortTotalKills {
		key = SortBestScore
	}
	if limit <= 0 || limit > maxLeaderboardLen {
		limit = leaderboardShown
	}
	b := s.backend
	s.tasks.Submit(s.epoch(), false, func(ctx context.Context) func() {
		entries, err := b.Leaderboard(ctx, key, limit)
		return func() { s.sendLeaderboard(key, entries, err) }
	})
}

// PostChat validates and sends one chat line. Rejected lines never leave the server.
func (s *Session) PostChat(text string) error {
	b := s.backend
	if b == nil || b.Chat == nil {
		return ErrNoBackend
	}
	s.mu.Lock()
	now := time.Now()
	text, err := s.chat.Check(text, now)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.chat.Sent(now)
	author := s.pseudo
	epoch := s.game.Epoch()
	s.mu.Unlock()

	s.tasks.Submit(epoch, false, func(ctx context.Context) func() {
		if err := b.Chat.PostMessage(ctx, author, text); err != nil {
			log.Printf("session %s: chat post: %v", s.ID, err)
			return func() { s.notice("message not sent") }
		}
		return nil
	})
	return nil
}

// AttachController links a phone controller to this session
func (s *Session) AttachController(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl = p
	s.peer.SendJSON(Envelope{T: MsgCtrlOn})
}

// DetachController unlinks p if it is the current controller
func (s *Session) DetachController(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctrl != p {
		return
	}
	s.ctrl = nil
	s.game.SetKeys(Keys{})
	s.peer.SendJSON(Envelope{T: MsgCtrlOff})
}

var errSessionLimit = errors.New("too many active sessions")

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	backend  *Backend
	tuning   Tuning
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(backend *Backend, t Tuning) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
		backend:  backend,
		tuning:   t,
	}
}

// CreateSession creates and starts a session for peer
func (sm *SessionManager) CreateSession(peer Peer) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= maxSessions {
		return nil, errSessionLimit
	}

	id := GenerateUUID()
	sess := NewSession(id, peer, sm.backend, sm.tuning, time.Now().UnixNano())
	sm.sessions[id] = sess
	sm.backend.analytics().SetActiveSessions(len(sm.sessions))
	go sess.Run()
	return sess, nil
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// RemoveSession stops and forgets a session
func (sm *SessionManager) RemoveSession(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	delete(sm.sessions, id)
	n := len(sm.sessions)
	sm.mu.Unlock()
	if !ok {
		return
	}
	sess.Stop()
	sm.backend.analytics().SetActiveSessions(n)
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// StopAll stops every session and waits for their loops to exit
func (sm *SessionManager) StopAll() {
	sm.mu.Lock()
	all := make([]*Session, 0, len(sm.sessions))
	for id, s := range sm.sessions {
		all = append(all, s)
		delete(sm.sessions, id)
	}
	sm.mu.Unlock()
	for _, s := range all {
		s.Stop()
		<-s.Done()
	}
}
