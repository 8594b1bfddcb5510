package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Freeeeeet/mosque_display/internal/model"
	"github.com/Freeeeeet/mosque_display/internal/remembrance"
	"github.com/Freeeeeet/mosque_display/internal/sequencer"
)

// File необязательный TOML файл с таймингами и текстами мечети.
// Всё, что не указано, остаётся по умолчанию.
type File struct {
	Screen      ScreenSection      `toml:"screen"`
	Names       map[string]string  `toml:"names"`
	Iqama       IqamaSection       `toml:"iqama"`
	Remembrance RemembranceSection `toml:"remembrance"`
	Friday      FridaySection      `toml:"friday"`
}

type ScreenSection struct {
	MosqueName string `toml:"mosque_name"`
	PlaceName  string `toml:"place_name"`
}

type IqamaSection struct {
	Lead    Duration            `toml:"lead"`
	Grace   Duration            `toml:"grace"`
	CatchUp Duration            `toml:"catch_up"`
	Delay   map[string]Duration `toml:"delay"`
}

type RemembranceSection struct {
	Span       Duration                      `toml:"span"`
	ShortDwell Duration                      `toml:"short_dwell"`
	LongDwell  Duration                      `toml:"long_dwell"`
	Delay      map[string]Duration           `toml:"delay"`
	Repeat     map[string]int                `toml:"repeat"`
	Short      map[string][]remembrance.Text `toml:"short"`
	Long       []remembrance.Text            `toml:"long"`
}

type FridaySection struct {
	KhutbaLead       Duration `toml:"khutba_lead"`
	Khutba           Duration `toml:"khutba"`
	PrayerWindow     Duration `toml:"prayer_window"`
	RemembranceDelay Duration `toml:"remembrance_delay"`
}

// Profile всё, что секвенсор и экран берут из файла.
type Profile struct {
	Timings sequencer.Timings
	Names   model.DisplayNames
	Catalog *remembrance.Catalog
	Screen  ScreenSection
}

func DefaultProfile() *Profile {
	return &Profile{
		Timings: sequencer.DefaultTimings(),
		Names:   model.DefaultDisplayNames(),
		Catalog: remembrance.Default(),
	}
}

// LoadProfile читает path поверх значений по умолчанию. Пустой путь даёт значения по умолчанию.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	p, err := LoadProfileFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return p, nil
}

func LoadProfileFromReader(r io.Reader) (*Profile, error) {
	var file File
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	p := DefaultProfile()
	if err := file.apply(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (f *File) apply(p *Profile) error {
	t := &p.Timings
	p.Screen = f.Screen

	setDuration(&t.IqamaLead, f.Iqama.Lead)
	setDuration(&t.IqamaGrace, f.Iqama.Grace)
	setDuration(&t.AdhanCatchUp, f.Iqama.CatchUp)
	setDuration(&t.RemembranceSpan, f.Remembrance.Span)
	setDuration(&t.ShortDwell, f.Remembrance.ShortDwell)
	setDuration(&t.LongDwell, f.Remembrance.LongDwell)
	setDuration(&t.Friday.KhutbaLead, f.Friday.KhutbaLead)
	setDuration(&t.Friday.Khutba, f.Friday.Khutba)
	setDuration(&t.Friday.PrayerWindow, f.Friday.PrayerWindow)
	setDuration(&t.Friday.RemembranceDelay, f.Friday.RemembranceDelay)

	if err := mergeDurations(t.IqamaDelay, f.Iqama.Delay, "iqama.delay"); err != nil {
		return err
	}
	if err := mergeDurations(t.RemembranceDelay, f.Remembrance.Delay, "remembrance.delay"); err != nil {
		return err
	}

	for key, name := range f.Names {
		k, ok := model.ParsePrayerKey(key)
		if !ok {
			return fmt.Errorf("names: unknown prayer %q", key)
		}
		p.Names[k] = name
	}

	for key, n := range f.Remembrance.Repeat {
		k, ok := model.ParsePrayerKey(key)
		if !ok {
			return fmt.Errorf("remembrance.repeat: unknown prayer %q", key)
		}
		if n < 1 {
			return fmt.Errorf("remembrance.repeat.%s must be at least 1", key)
		}
		p.Catalog.Repeat[k] = n
	}
	for key, texts := range f.Remembrance.Short {
		k, ok := model.ParsePrayerKey(key)
		if !ok {
			return fmt.Errorf("remembrance.short: unknown prayer %q", key)
		}
		p.Catalog.Short[k] = texts
	}
	if len(f.Remembrance.Long) > 0 {
		p.Catalog.Long = f.Remembrance.Long
	}
	return nil
}

func setDuration(dst *time.Duration, d Duration) {
	if d.Duration > 0 {
		*dst = d.Duration
	}
}

func mergeDurations(dst map[model.PrayerKey]time.Duration, src map[string]Duration, section string) error {
	for key, d := range src {
		k, ok := model.ParsePrayerKey(key)
		if !ok {
			return fmt.Errorf("%s: unknown prayer %q", section, key)
		}
		dst[k] = d.Duration
	}
	return nil
}
