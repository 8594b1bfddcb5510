// Package audio проигрывает сигналы азана и икамы, не блокируя вызывающего.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"
)

// Player запускает клип и сразу возвращается.
type Player interface {
	Play(clip model.ClipKind)
}

// NopPlayer только логирует. Используется, когда аудиофайлы не настроены.
type NopPlayer struct {
	logger *zap.Logger
}

func NewNopPlayer(logger *zap.Logger) *NopPlayer {
	return &NopPlayer{logger: logger}
}

func (p *NopPlayer) Play(clip model.ClipKind) {
	p.logger.Info("🔇 Audio disabled, skipping clip", zap.String("clip", string(clip)))
}

// BeepPlayer декодирует WAV или MP3 и играет их на устройстве вывода по умолчанию.
// Одновременно играет не больше одного клипа каждого вида.
type BeepPlayer struct {
	files   map[model.ClipKind]string
	playing map[model.ClipKind]*atomic.Bool
	logger  *zap.Logger

	// play блокируется до конца файла; подменяется в тестах
	play func(path string) error

	initOnce   sync.Once
	initErr    error
	sampleRate beep.SampleRate
}

func NewBeepPlayer(files map[model.ClipKind]string, logger *zap.Logger) *BeepPlayer {
	p := &BeepPlayer{
		files:   files,
		playing: map[model.ClipKind]*atomic.Bool{},
		logger:  logger,
	}
	for _, c := range []model.ClipKind{model.ClipAdhan, model.ClipIqama} {
		p.playing[c] = &atomic.Bool{}
	}
	p.play = p.playFile
	return p
}

// Play запускает клип в фоне. Ошибки логируются и отбрасываются.
func (p *BeepPlayer) Play(clip model.ClipKind) {
	path := p.files[clip]
	if path == "" {
		p.logger.Warn("⚠️ No audio file configured", zap.String("clip", string(clip)))
		return
	}
	if _, err := os.Stat(path); err != nil {
		p.logger.Warn("⚠️ Audio file not available", zap.String("clip", string(clip)), zap.Error(err))
		return
	}

	busy, ok := p.playing[clip]
	if !ok {
		busy = &atomic.Bool{}
	}
	if !busy.CompareAndSwap(false, true) {
		p.logger.Warn("⚠️ Clip already playing", zap.String("clip", string(clip)))
		return
	}

	go func() {
		defer busy.Store(false)
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("❌ Audio playback panicked", zap.String("clip", string(clip)), zap.Any("panic", r))
			}
		}()

		start := time.Now()
		if err := p.play(path); err != nil {
			p.logger.Error("❌ Audio playback failed", zap.String("clip", string(clip)), zap.Error(err))
			return
		}
		p.logger.Info("🔊 Clip finished", zap.String("clip", string(clip)), zap.Duration("took", time.Since(start)))
	}()
}

func (p *BeepPlayer) playFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	if err := p.initSpeaker(format); err != nil {
		return err
	}

	var s beep.Streamer = streamer
	if format.SampleRate != p.sampleRate {
		s = beep.Resample(4, format.SampleRate, p.sampleRate, streamer)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(s, beep.Callback(func() {
		close(done)
	})))
	<-done
	return nil
}

// initSpeaker открывает устройство вывода один раз, с частотой первого клипа.
func (p *BeepPlayer) initSpeaker(format beep.Format) error {
	p.initOnce.Do(func() {
		p.sampleRate = format.SampleRate
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			p.initErr = fmt.Errorf("init speaker: %w", err)
		}
	})
	return p.initErr
}
