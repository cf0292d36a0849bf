package main

import (
	"errors"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/wav"
)

const (
	sfxRate       = beep.SampleRate(22050)
	sfxMasterGain = 0.2
	sfxFloor      = 0.01 // exponential fades end here
)

type waveShape int

const (
	waveSine waveShape = iota
	waveSquare
)

type rampKind int

const (
	rampNone rampKind = iota
	rampLinear
	rampExp
)

// toneSpec is one cue: an oscillator swept from From to To Hz while its gain
// fades from Gain towards zero over Dur.
type toneSpec struct {
	Wave     waveShape
	From, To float64
	Sweep    rampKind
	Gain     float64
	Fade     rampKind
	Dur      time.Duration
}

var cueTones = map[Cue]toneSpec{
	CueShoot:      {Wave: waveSquare, From: 800, To: 800, Gain: 0.05, Fade: rampExp, Dur: 100 * time.Millisecond},
	CueEnemyDeath: {Wave: waveSine, From: 300, To: 50, Sweep: rampExp, Gain: 0.2, Fade: rampLinear, Dur: 300 * time.Millisecond},
	CueHeal:       {Wave: waveSine, From: 400, To: 800, Sweep: rampLinear, Gain: 0.3, Fade: rampLinear, Dur: 600 * time.Millisecond},
	CueClick:      {Wave: waveSine, From: 1200, To: 1200, Gain: 0.1, Fade: rampExp, Dur: 50 * time.Millisecond},
	CueAmbience:   {Wave: waveSine, From: 60, To: 60, Gain: 0.03, Dur: 2 * time.Second}, // looped by the client
}

func ramp(kind rampKind, from, to, t float64) float64 {
	switch kind {
	case rampLinear:
		return from + (to-from)*t
	case rampExp:
		return from * math.Pow(to/from, t)
	}
	return from
}

// tone renders a toneSpec
type tone struct {
	spec  toneSpec
	rate  beep.SampleRate
	pos   int
	total int
	phase float64
}

func newTone(spec toneSpec, rate beep.SampleRate) *tone {
	return &tone{spec: spec, rate: rate, total: rate.N(spec.Dur)}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	s := t.spec
	for i := range samples {
		if t.pos >= t.total {
			return i, i > 0
		}
		p := float64(t.pos) / float64(t.total)

		var val float64
		switch s.Wave {
		case waveSquare:
			val = 1
			if t.phase >= 0.5 {
				val = -1
			}
		default:
			val = math.Sin(2 * math.Pi * t.phase)
		}

		gain := s.Gain
		switch s.Fade {
		case rampLinear:
			gain = ramp(rampLinear, s.Gain, 0, p)
		case rampExp:
			gain = ramp(rampExp, s.Gain, sfxFloor, p)
		}
		val *= gain
		samples[i][0] = val
		samples[i][1] = val

		freq := ramp(s.Sweep, s.From, s.To, p)
		t.phase += freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.pos++
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// RenderCue synthesises a cue as a mono 16-bit WAV file
func RenderCue(c Cue) ([]byte, error) {
	spec, ok := cueTones[c]
	if !ok {
		return nil, errors.New("unknown cue " + string(c))
	}
	var s beep.Streamer = newTone(spec, sfxRate)
	s = &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(sfxMasterGain)}

	var f memFile
	format := beep.Format{SampleRate: sfxRate, NumChannels: 1, Precision: 2}
	if err := wav.Encode(&f, s, format); err != nil {
		return nil, err
	}
	return f.buf, nil
}

// memFile is an in-memory io.WriteSeeker for the WAV encoder, which
// rewrites its header after streaming.
type memFile struct {
	buf []byte
	off int
}

func (f *memFile) Write(p []byte) (int, error) {
	if end := f.off + len(p); end > len(f.buf) {
		f.buf = append(f.buf, make([]byte, end-len(f.buf))...)
	}
	n := copy(f.buf[f.off:], p)
	f.off += n
	return n, nil
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(f.off)
	case io.SeekEnd:
		base = int64(len(f.buf))
	default:
		return 0, errors.New("memfile: bad whence")
	}
	pos := base + offset
	if pos < 0 {
		return 0, errors.New("memfile: negative position")
	}
	f.off = int(pos)
	return pos, nil
}

// SfxBank holds every rendered cue
type SfxBank struct {
	files map[Cue][]byte
}

// NewSfxBank renders all cues up front
func NewSfxBank() (*SfxBank, error) {
	b := &SfxBank{files: make(map[Cue][]byte, len(AllCues))}
	for _, c := range AllCues {
		data, err := RenderCue(c)
		if err != nil {
			return nil, err
		}
		b.files[c] = data
	}
	return b, nil
}

// ServeHTTP serves /sfx/{cue}.wav
func (b *SfxBank) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(r.PathValue("name"), ".wav")
	data, ok := b.files[Cue(name)]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

func cueURL(c Cue) string {
	return "/sfx/" + string(c) + ".wav"
}

// CueSender is the server-side AudioSink: it tells the client which cue to play
type CueSender struct {
	peer Peer
}

func (c CueSender) Play(cue Cue) {
	c.peer.SendJSON(Envelope{T: MsgSfx, Data: SfxMsg{Cue: string(cue), URL: cueURL(cue)}})
}
