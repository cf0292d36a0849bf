package main

import (
	"encoding/json"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
)

// Client -> Server message types
const (
	MsgCheck       = "check"    // does this pseudo exist
	MsgRegister    = "register" // create account
	MsgLogin       = "login"
	MsgAuth        = "auth"  // resume with a token
	MsgGuest       = "guest" // play without an account
	MsgStart       = "start"
	MsgInput       = "input"
	MsgDash        = "dash"
	MsgShop        = "shop" // toggle shop
	MsgBuy         = "buy"
	MsgPause       = "pause"
	MsgResume      = "resume"
	MsgRestart     = "restart"
	MsgProfile     = "profile"
	MsgLeaderboard = "leaderboard"
	MsgBestiary    = "bestiary"
	MsgChat        = "chat"
	MsgResize      = "resize"
	MsgControl     = "control" // phone controller attach
)

// Server -> Client message types
const (
	MsgWelcome   = "welcome"
	MsgAuthOK    = "auth_ok"
	MsgChecked   = "checked"
	MsgError     = "error"
	MsgEvent     = "event"
	MsgSfx       = "sfx"
	MsgStats     = "stats"
	MsgOffers    = "offers"
	MsgNotice    = "notice"
	MsgControlOK = "control_ok"
	MsgCtrlOn    = "ctrl_on"  // notify desktop: controller attached
	MsgCtrlOff   = "ctrl_off" // notify desktop: controller detached
)

// binaryStateMarker prefixes msgpack state frames on the wire
const binaryStateMarker = 0xFF

var errBadFrame = errors.New("not a state frame")

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; D is decoded once the type is known
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// ClientInput is the held-key state, sent on every change
type ClientInput struct {
	Up    bool `json:"u"`
	Down  bool `json:"d"`
	Left  bool `json:"l"`
	Right bool `json:"r"`
}

func (in ClientInput) Keys() Keys {
	return Keys{Up: in.Up, Down: in.Down, Left: in.Left, Right: in.Right}
}

// CredentialsMsg carries check/register/login fields
type CredentialsMsg struct {
	Pseudo  string `json:"pseudo"`
	PIN     string `json:"pin,omitempty"`
	Confirm string `json:"confirm,omitempty"`
}

// AuthMsg resumes a session with a previously issued token
type AuthMsg struct {
	Token string `json:"token"`
}

type AuthOKMsg struct {
	Pseudo  string   `json:"pseudo"`
	Token   string   `json:"token"`
	Profile *Profile `json:"profile,omitempty"`
}

type CheckedMsg struct {
	Pseudo string `json:"pseudo"`
	Exists bool   `json:"exists"`
}

type BuyMsg struct {
	ID string `json:"id"`
}

type LeaderboardReq struct {
	Key   string `json:"key"`
	Limit int    `json:"limit,omitempty"`
}

type LeaderboardMsg struct {
	Key     string             `json:"key"`
	Entries []LeaderboardEntry `json:"entries"`
	Err     string             `json:"err,omitempty"`
}

type ChatReq struct {
	Text string `json:"text"`
}

type ChatMsg struct {
	Messages []ChatMessage `json:"messages"`
}

type ResizeMsg struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type SfxMsg struct {
	Cue string `json:"cue"`
	URL string `json:"url"`
}

type NoticeMsg struct {
	Msg string `json:"msg"`
}

// ErrorMsg sends error to client
type ErrorMsg struct {
	Msg string `json:"msg"`
}

type WelcomeMsg struct {
	SID string `json:"sid"`
}

// ControlMsg is sent by a phone controller to attach to a session
type ControlMsg struct {
	SID string `json:"sid"`
}

// ShopOffer is one row of the shop screen
type ShopOffer struct {
	ID         string `json:"id" msgpack:"id"`
	Name       string `json:"name" msgpack:"name"`
	Desc       string `json:"desc" msgpack:"desc"`
	Level      int    `json:"level" msgpack:"level"`
	Cost       int    `json:"cost" msgpack:"cost"`
	Consumable bool   `json:"consumable,omitempty" msgpack:"consumable,omitempty"`
	Maxed      bool   `json:"maxed,omitempty" msgpack:"maxed,omitempty"`
	CanBuy     bool   `json:"canBuy" msgpack:"canBuy"`
}

type OffersMsg struct {
	Gold   int         `json:"gold"`
	Offers []ShopOffer `json:"offers"`
}

// PlayerState is the player's part of a frame
type PlayerState struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	HP     float64 `json:"hp" msgpack:"hp"`
	MaxHP  float64 `json:"mhp" msgpack:"mhp"`
	Dash   bool    `json:"dash,omitempty" msgpack:"dash,omitempty"`
	DashCD int     `json:"dcd,omitempty" msgpack:"dcd,omitempty"`
	Moving bool    `json:"mv,omitempty" msgpack:"mv,omitempty"`
	Dead   bool    `json:"dead,omitempty" msgpack:"dead,omitempty"`
}

// EnemyState is broadcast per enemy
type EnemyState struct {
	ID     string  `json:"id" msgpack:"id"`
	K      string  `json:"k" msgpack:"k"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	R      float64 `json:"r" msgpack:"r"`
	HP     float64 `json:"hp" msgpack:"hp"`
	MaxHP  float64 `json:"mhp" msgpack:"mhp"`
	Immune bool    `json:"im,omitempty" msgpack:"im,omitempty"`
	Angle  float64 `json:"a,omitempty" msgpack:"a,omitempty"`
	Beam   int     `json:"b,omitempty" msgpack:"b,omitempty"` // 1 charging, 2 firing
	TX     float64 `json:"tx,omitempty" msgpack:"tx,omitempty"`
	TY     float64 `json:"ty,omitempty" msgpack:"ty,omitempty"`
}

// ProjectileState is broadcast per projectile
type ProjectileState struct {
	ID string  `json:"id" msgpack:"id"`
	X  float64 `json:"x" msgpack:"x"`
	Y  float64 `json:"y" msgpack:"y"`
	R  float64 `json:"r" msgpack:"r"`
	C  string  `json:"c" msgpack:"c"`
	E  bool    `json:"e,omitempty" msgpack:"e,omitempty"`
}

// PowerUpState is broadcast per pickup
type PowerUpState struct {
	ID   string  `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	K    string  `json:"k" msgpack:"k"`
	Life float64 `json:"l" msgpack:"l"` // fraction remaining
}

type ParticleState struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	S float64 `json:"s" msgpack:"s"`
	C string  `json:"c" msgpack:"c"`
	A float64 `json:"a" msgpack:"a"`
}

type TextState struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	T string  `json:"t" msgpack:"t"`
	C string  `json:"c" msgpack:"c"`
	A float64 `json:"a" msgpack:"a"`
}

type BannerState struct {
	Text  string  `json:"t" msgpack:"t"`
	Alpha float64 `json:"a" msgpack:"a"`
}

type CameraState struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	W float64 `json:"w" msgpack:"w"`
	H float64 `json:"h" msgpack:"h"`
}

// HUDState is everything the overlay text reads
type HUDState struct {
	Wave      int     `json:"wave" msgpack:"wave"`
	WaveKills int     `json:"wk" msgpack:"wk"`
	Kills     int     `json:"kills" msgpack:"kills"`
	ToSpawn   int     `json:"ts" msgpack:"ts"`
	Gold      int     `json:"gold" msgpack:"gold"`
	Level     int     `json:"lvl" msgpack:"lvl"`
	XPPct     float64 `json:"xp" msgpack:"xp"`
	RagePct   float64 `json:"rage" msgpack:"rage"`
	DashReady bool    `json:"dr" msgpack:"dr"`
	HasDashed bool    `json:"hd" msgpack:"hd"`
	CanBuy    bool    `json:"cb" msgpack:"cb"`
	Restart   int     `json:"rs,omitempty" msgpack:"rs,omitempty"` // countdown seconds
}

// Frame is the full state broadcast
type Frame struct {
	Tick        uint64            `json:"tick" msgpack:"tick"`
	Epoch       uint64            `json:"ep" msgpack:"ep"`
	Phase       string            `json:"ph" msgpack:"ph"`
	Player      *PlayerState      `json:"p,omitempty" msgpack:"p,omitempty"`
	Enemies     []EnemyState      `json:"e" msgpack:"e"`
	Projectiles []ProjectileState `json:"pr" msgpack:"pr"`
	PowerUps    []PowerUpState    `json:"pu" msgpack:"pu"`
	Particles   []ParticleState   `json:"pt" msgpack:"pt"`
	Texts       []TextState       `json:"tx" msgpack:"tx"`
	Banner      *BannerState      `json:"bn,omitempty" msgpack:"bn,omitempty"`
	Camera      CameraState       `json:"cam" msgpack:"cam"`
	HUD         HUDState          `json:"hud" msgpack:"hud"`
	WorldW      float64           `json:"ww" msgpack:"ww"`
	WorldH      float64           `json:"wh" msgpack:"wh"`
}

// EncodeFrame packs a frame behind the binary marker byte
func EncodeFrame(f *Frame) ([]byte, error) {
	b, err := msgpack.Marshal(f)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(b)+1)
	out = append(out, binaryStateMarker)
	return append(out, b...), nil
}

// DecodeFrame is the inverse of EncodeFrame
func DecodeFrame(data []byte) (*Frame, error) {
	if len(data) == 0 || data[0] != binaryStateMarker {
		return nil, errBadFrame
	}
	var f Frame
	if err := msgpack.Unmarshal(data[1:], &f); err != nil {
		return nil, err
	}
	return &f, nil
}
