package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
)

const (
	cellW   = 10.0 // world pixels per terminal column
	cellH   = 20.0 // world pixels per terminal row
	keyHold = 200 * time.Millisecond
	tuiPoll = 30 * time.Millisecond

	minimapW = 16
	minimapH = 8
)

// cellCanvas is the part of tcell.Screen the renderer draws on
type cellCanvas interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (int, int)
}

var enemyGlyphs = map[string]rune{
	"drone": 'd', "scout": 's', "tank": 'T', "sniper": 'S',
	"teleporter": 'w', "ghost": 'g', "beam": 'L', "boss": 'B',
}

var powerUpGlyphs = map[string]rune{"HEAL": '+', "RAGE": '!', "COIN": '$'}

// tuiPeer receives a session's output and keeps what the screen needs
type tuiPeer struct {
	mu     sync.Mutex
	frame  *Frame
	offers []ShopOffer
	status string
	beep   func()
}

func (p *tuiPeer) SendRaw(data []byte) {
	f, err := DecodeFrame(data)
	if err != nil {
		return
	}
	p.mu.Lock()
	p.frame = f
	p.mu.Unlock()
}

func (p *tuiPeer) SendJSON(msg interface{}) {
	env, ok := msg.(Envelope)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	switch d := env.Data.(type) {
	case SfxMsg:
		if Cue(d.Cue) == CueEnemyDeath && p.beep != nil {
			p.beep()
		}
	case OffersMsg:
		p.offers = d.Offers
	case NoticeMsg:
		p.status = d.Msg
	case ErrorMsg:
		p.status = d.Msg
	case ChatMsg:
		if n := len(d.Messages); n > 0 {
			m := d.Messages[n-1]
			p.status = author(m) + ": " + m.Text
		}
	case Event:
		if d.Kind == EventLevelUp {
			p.status = fmt.Sprintf("LEVEL %d", d.Value)
		}
	}
}

func author(m ChatMessage) string {
	if m.Author == "" {
		return GuestAuthor
	}
	return m.Author
}

func (p *tuiPeer) view() (*Frame, []ShopOffer, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame, p.offers, p.status
}

// heldKeys turns key presses into held movement. Terminals only report
// presses, so a direction stays held for keyHold after its last repeat.
type heldKeys struct {
	up, down, left, right time.Time
}

func (h *heldKeys) press(dir rune, now time.Time) {
	switch dir {
	case 'w':
		h.up = now
	case 's':
		h.down = now
	case 'a':
		h.left = now
	case 'd':
		h.right = now
	}
}

func (h *heldKeys) at(now time.Time) Keys {
	held := func(t time.Time) bool { return !t.IsZero() && now.Sub(t) < keyHold }
	return Keys{Up: held(h.up), Down: held(h.down), Left: held(h.left), Right: held(h.right)}
}

// direction maps an arrow key or WASD rune onto w/a/s/d, or 0
func direction(ev *tcell.EventKey) rune {
	switch ev.Key() {
	case tcell.KeyUp:
		return 'w'
	case tcell.KeyDown:
		return 's'
	case tcell.KeyLeft:
		return 'a'
	case tcell.KeyRight:
		return 'd'
	case tcell.KeyRune:
		switch r := ev.Rune(); r {
		case 'w', 'a', 's', 'd':
			return r
		case 'W', 'A', 'S', 'D':
			return r + ('a' - 'A')
		}
	}
	return 0
}

// TUI plays one local session in the terminal
type TUI struct {
	screen tcell.Screen
	sess   *Session
	peer   *tuiPeer
	keys   heldKeys
	last   Keys
}

// RunTUI runs a local game until the player quits
func RunTUI(backend *Backend, t Tuning) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorDefault).Foreground(tcell.ColorWhite))
	screen.Clear()

	peer := &tuiPeer{beep: func() { screen.Beep() }}
	ui := &TUI{
		screen: screen,
		sess:   NewSession("local", peer, backend, t, time.Now().UnixNano()),
		peer:   peer,
	}
	ui.resize()
	go ui.sess.Run()
	defer func() {
		ui.sess.Stop()
		<-ui.sess.Done()
	}()
	return ui.loop()
}

func (ui *TUI) resize() {
	w, h := ui.screen.Size()
	ui.sess.Resize(float64(w)*cellW, float64(h-1)*cellH)
}

func (ui *TUI) loop() error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := ui.screen.PollEvent()
			events <- ev
			if ev == nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(tuiPoll)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !ui.handleKey(ev, time.Now()) {
					return nil
				}
			case *tcell.EventResize:
				ui.screen.Sync()
				ui.resize()
			case nil:
				return nil
			}
		case now := <-ticker.C:
			if k := ui.keys.at(now); k != ui.last {
				ui.last = k
				ui.sess.Input(k)
			}
			frame, offers, status := ui.peer.view()
			ui.screen.Clear()
			drawFrame(ui.screen, frame, offers, status)
			ui.screen.Show()
		}
	}
}

// handleKey applies one key press. It returns false when the player quits.
func (ui *TUI) handleKey(ev *tcell.EventKey, now time.Time) bool {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		return false
	}
	if d := direction(ev); d != 0 {
		ui.keys.press(d, now)
		// Shift+direction dashes
		if ev.Key() == tcell.KeyRune && ev.Rune() != d {
			ui.sess.Dash()
		}
		return true
	}
	if ev.Key() == tcell.KeyEnter {
		switch ui.sess.Phase() {
		case PhaseLogin:
			ui.sess.PlayAsGuest()
		case PhaseMenu:
			ui.sess.Start()
		}
		return true
	}
	if ev.Key() != tcell.KeyRune {
		return true
	}
	switch r := ev.Rune(); {
	case r == 'q':
		return false
	case r == 'e':
		ui.sess.Dash()
	case r == ' ':
		ui.sess.ToggleShop()
	case r == 'p':
		if !ui.sess.Pause() {
			ui.sess.Resume()
		}
	case r == 'r':
		ui.sess.Restart()
	case r >= '1' && r <= '9':
		_, offers, _ := ui.peer.view()
		if i := int(r - '1'); i < len(offers) {
			if err := ui.sess.Buy(offers[i].ID); err != nil {
				ui.peer.mu.Lock()
				ui.peer.status = err.Error()
				ui.peer.mu.Unlock()
			}
		}
	}
	return true
}

func styleFor(color string) tcell.Style {
	return tcell.StyleDefault.Foreground(tcell.GetColor(color))
}

func drawText(c cellCanvas, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		c.SetContent(x, y, r, nil, style)
		x++
	}
}

// drawFrame renders a frame: the world above, one HUD line at the bottom
func drawFrame(c cellCanvas, f *Frame, offers []ShopOffer, status string) {
	cols, rows := c.Size()
	if rows < 2 || cols < 1 {
		return
	}
	if f == nil {
		drawText(c, 0, 0, "connecting...", tcell.StyleDefault)
		return
	}
	world := rows - 1

	cam := Camera{X: f.Camera.X, Y: f.Camera.Y, Width: f.Camera.W, Height: f.Camera.H}
	cell := func(x, y float64) (int, int, bool) {
		if cam.Width <= 0 || cam.Height <= 0 {
			return 0, 0, false
		}
		sx, sy := cam.WorldToScreen(x, y)
		cx := int(sx / cam.Width * float64(cols))
		cy := int(sy / cam.Height * float64(world))
		return cx, cy, cx >= 0 && cx < cols && cy >= 0 && cy < world
	}
	put := func(x, y float64, r rune, style tcell.Style) {
		if cx, cy, ok := cell(x, y); ok {
			c.SetContent(cx, cy, r, nil, style)
		}
	}

	for _, p := range f.Particles {
		put(p.X, p.Y, '.', styleFor(p.C))
	}
	for _, p := range f.PowerUps {
		put(p.X, p.Y, powerUpGlyphs[p.K], styleFor("#ffd700"))
	}
	for _, e := range f.Enemies {
		g, ok := enemyGlyphs[e.K]
		if !ok {
			g = '?'
		}
		style := styleFor(ParseEnemyKind(e.K).Spec().Color)
		if e.Immune {
			style = style.Dim(true)
		}
		put(e.X, e.Y, g, style)
	}
	for _, p := range f.Projectiles {
		r := '·'
		if p.E {
			r = '*'
		}
		put(p.X, p.Y, r, styleFor(p.C))
	}
	if f.Player != nil && !f.Player.Dead {
		put(f.Player.X, f.Player.Y, '@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true))
	}
	for _, t := range f.Texts {
		if cx, cy, ok := cell(t.X, t.Y); ok {
			drawText(c, cx, cy, t.T, styleFor(t.C))
		}
	}
	if f.Banner != nil {
		drawText(c, (cols-len(f.Banner.Text))/2, world/3, f.Banner.Text, tcell.StyleDefault.Bold(true))
	}
	if f.WorldW > 0 && f.WorldH > 0 && cols >= 2*minimapW && world >= 2*minimapH {
		drawMinimap(c, f, 0, world-minimapH)
	}

	switch f.Phase {
	case PhaseLogin.String():
		drawText(c, 2, 1, "ENTER to play as guest, q to quit", tcell.StyleDefault)
	case PhaseMenu.String():
		drawText(c, 2, 1, "ENTER to start. WASD/arrows move, e dash, space shop, p pause", tcell.StyleDefault)
	case PhasePaused.String():
		drawText(c, 2, 1, "PAUSED (p to resume)", tcell.StyleDefault)
	case PhaseGameOver.String():
		msg := fmt.Sprintf("GAME OVER  wave %d  kills %d", f.HUD.Wave, f.HUD.Kills)
		if f.HUD.Restart > 0 {
			msg += fmt.Sprintf("  restart in %d", f.HUD.Restart)
		}
		drawText(c, 2, 1, msg, tcell.StyleDefault.Bold(true))
	case PhaseShop.String():
		drawText(c, 2, 1, fmt.Sprintf("SHOP  gold %d  (space to close)", f.HUD.Gold), tcell.StyleDefault.Bold(true))
		for i, o := range offers {
			if i >= 9 || 2+i >= world {
				break
			}
			line := fmt.Sprintf("%d. %-14s lv%d  %4d", i+1, o.Name, o.Level, o.Cost)
			style := tcell.StyleDefault
			if o.Maxed {
				line = fmt.Sprintf("%d. %-14s MAX", i+1, o.Name)
				style = style.Dim(true)
			} else if !o.CanBuy {
				style = style.Dim(true)
			}
			drawText(c, 2, 2+i, line, style)
		}
	}

	drawText(c, 0, world, hudLine(f, status), tcell.StyleDefault.Reverse(true))
}

// drawMinimap shows the whole world in the bottom-left corner
func drawMinimap(c cellCanvas, f *Frame, x0, y0 int) {
	bg := tcell.StyleDefault.Reverse(true).Dim(true)
	for y := 0; y < minimapH; y++ {
		for x := 0; x < minimapW; x++ {
			c.SetContent(x0+x, y0+y, ' ', nil, bg)
		}
	}
	dot := func(x, y float64, r rune, style tcell.Style) {
		mx, my := MinimapPoint(x, y, f.WorldW, f.WorldH, minimapW, minimapH)
		cx := int(Clamp(mx, 0, minimapW-1))
		cy := int(Clamp(my, 0, minimapH-1))
		c.SetContent(x0+cx, y0+cy, r, nil, style)
	}
	for _, e := range f.Enemies {
		dot(e.X, e.Y, '.', styleFor(ParseEnemyKind(e.K).Spec().Color).Reverse(true))
	}
	if f.Player != nil && !f.Player.Dead {
		dot(f.Player.X, f.Player.Y, '@', bg.Bold(true))
	}
}

func hudLine(f *Frame, status string) string {
	h := f.HUD
	hp := ""
	if f.Player != nil {
		hp = fmt.Sprintf("HP %.0f/%.0f ", f.Player.HP, f.Player.MaxHP)
	}
	s := fmt.Sprintf("%sW%d %d/%d  K%d  $%d  L%d %.0f%%", hp, h.Wave, h.WaveKills, h.ToSpawn, h.Kills, h.Gold, h.Level, h.XPPct)
	if h.RagePct > 0 {
		s += fmt.Sprintf("  RAGE %.0f%%", h.RagePct)
	}
	if h.DashReady {
		s += "  DASH"
	}
	if status != "" {
		s += "  | " + status
	}
	return s
}
