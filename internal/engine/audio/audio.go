// Package audio plays the looping theme and the one-shot effect.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/Faultbox/rockblast/internal/logger"
)

// DefaultSampleRate is the output sample rate; decoded clips are resampled
// to it.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrUnsupportedFormat is returned for clips that are neither WAV nor MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Config holds volume settings (0.0 to 1.0).
type Config struct {
	ThemeVolume  float64
	EffectVolume float64
	Muted        bool
}

// Player owns the speaker and mixes the theme with any number of effects.
// Without a device (Init not called or failed) every method still updates
// state but produces no sound.
type Player struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer

	theme        beep.StreamSeekCloser
	themeFormat  beep.Format
	themeCtrl    *beep.Ctrl
	themeVolume  *effects.Volume
	themeWanted  bool
	themeStarted bool

	effect *beep.Buffer

	themeLevel  float64
	effectLevel float64
	muted       bool

	log *zap.Logger
}

// New creates a player with the given volumes.
func New(cfg Config) *Player {
	return &Player{
		sampleRate:  DefaultSampleRate,
		mixer:       &beep.Mixer{},
		themeLevel:  clamp(cfg.ThemeVolume, 0, 1),
		effectLevel: clamp(cfg.EffectVolume, 0, 1),
		muted:       cfg.Muted,
		log:         logger.Named("audio"),
	}
}

// Init opens the audio device.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops playback and releases the theme decoder.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Clear()
		p.initialized = false
	}
	if p.theme != nil {
		p.theme.Close()
		p.theme = nil
	}
	p.themeCtrl = nil
	p.themeVolume = nil
	p.themeWanted = false
	p.themeStarted = false
}

// LoadTheme decodes the theme clip. It starts playing on StartTheme, or
// right away if StartTheme was already called.
func (p *Player) LoadTheme(name string, data []byte) error {
	s, format, err := decode(name, data)
	if err != nil {
		return fmt.Errorf("theme %s: %w", name, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.themeStarted {
		s.Close()
		return nil
	}
	if p.theme != nil {
		p.theme.Close()
	}
	p.theme = s
	p.themeFormat = format
	if p.themeWanted {
		p.startTheme()
	}
	return nil
}

// LoadEffect decodes the effect clip fully into memory so it can be
// replayed without touching the decoder.
func (p *Player) LoadEffect(name string, data []byte) error {
	s, format, err := decode(name, data)
	if err != nil {
		return fmt.Errorf("effect %s: %w", name, err)
	}
	defer s.Close()

	buf := beep.NewBuffer(beep.Format{SampleRate: p.sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(p.resample(format, s))
	if err := s.Err(); err != nil {
		return fmt.Errorf("effect %s: %w", name, err)
	}

	p.mu.Lock()
	p.effect = buf
	p.mu.Unlock()
	return nil
}

// StartTheme begins looping the theme, or marks it to start once loaded.
// Later calls do nothing.
func (p *Player) StartTheme() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.themeWanted = true
	p.startTheme()
}

func (p *Player) startTheme() {
	if p.themeStarted || p.theme == nil {
		return
	}
	p.themeStarted = true

	p.themeCtrl = &beep.Ctrl{Streamer: &loopStreamer{
		source:    p.theme,
		resampled: p.resample(p.themeFormat, p.theme),
	}}
	p.themeVolume = &effects.Volume{Streamer: p.themeCtrl, Base: 2}
	p.applyThemeVolume()

	if p.initialized {
		speaker.Lock()
		p.mixer.Add(p.themeVolume)
		speaker.Unlock()
	}
	p.log.Debug("theme started", zap.Float64("volume", p.themeLevel), zap.Bool("muted", p.muted))
}

// ToggleMute switches the theme between silent and its configured volume.
func (p *Player) ToggleMute() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.muted = !p.muted
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.applyThemeVolume()
}

// SetVolumes changes the theme and effect levels. A playing theme follows
// at once; effects use the new level from their next play.
func (p *Player) SetVolumes(theme, effect float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.themeLevel = clamp(theme, 0, 1)
	p.effectLevel = clamp(effect, 0, 1)
	if p.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.applyThemeVolume()
}

// PlayEffect plays the effect once over whatever is already playing. With
// no effect clip loaded a short synthesized boing is used.
func (p *Player) PlayEffect() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	var s beep.Streamer
	if p.effect != nil {
		s = p.effect.Streamer(0, p.effect.Len())
	} else {
		s = Boing(p.sampleRate)
	}

	speaker.Lock()
	p.mixer.Add(withVolume(s, p.effectLevel))
	speaker.Unlock()
}

// ThemeVolume returns the effective theme volume: 0 while muted, the
// configured level otherwise.
func (p *Player) ThemeVolume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.muted {
		return 0
	}
	return p.themeLevel
}

// Muted reports whether the theme is muted.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// ThemeStarted reports whether StartTheme has taken effect.
func (p *Player) ThemeStarted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.themeStarted
}

func (p *Player) applyThemeVolume() {
	if p.themeVolume == nil {
		return
	}
	vol := p.themeLevel
	if p.muted {
		vol = 0
	}
	p.themeVolume.Silent = vol <= 0
	p.themeVolume.Volume = gain(vol)
}

func (p *Player) resample(format beep.Format, s beep.Streamer) beep.Streamer {
	if format.SampleRate == p.sampleRate {
		return s
	}
	return beep.Resample(4, format.SampleRate, p.sampleRate, s)
}

// clip keeps the in-memory reader seekable so decoders can rewind it.
type clip struct {
	*bytes.Reader
}

func (clip) Close() error { return nil }

// decode picks a decoder from the clip's magic bytes, falling back to the
// file extension when the content is not recognized.
func decode(name string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	kind := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
		kind = t.Extension
	}

	r := clip{bytes.NewReader(data)}
	switch kind {
	case "wav":
		return wav.Decode(r)
	case "mp3":
		return mp3.Decode(r)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
}

// withVolume scales amplitude linearly; with Base 2 the exponent is log2.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	return &effects.Volume{Streamer: s, Base: 2, Volume: gain(vol), Silent: vol <= 0}
}

func gain(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

// loopStreamer restarts the source from the beginning whenever it drains.
type loopStreamer struct {
	source    beep.StreamSeeker
	resampled beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		got, more := l.resampled.Stream(samples[n:])
		n += got
		if more {
			continue
		}
		if l.source.Len() == 0 {
			return n, n > 0
		}
		if err := l.source.Seek(0); err != nil {
			return n, false
		}
	}
	return n, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}

// Boing synthesizes a short falling chirp with a fast decay.
func Boing(sr beep.SampleRate) beep.Streamer {
	total := sr.N(250 * time.Millisecond)
	pos := 0
	phase := 0.0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for n < len(samples) && pos < total {
			t := float64(pos) / float64(sr)
			freq := 520 - 1200*t
			phase += 2 * math.Pi * freq / float64(sr)
			v := math.Exp(-t*14) * math.Sin(phase) * 0.6
			samples[n] = [2]float64{v, v}
			n++
			pos++
		}
		return n, n > 0
	})
}
