// Package remembrance хранит тексты азкаров после каждого намаза.
package remembrance

import "github.com/Freeeeeet/mosque_display/internal/model"

type Text struct {
	Title string `toml:"title"`
	Body  string `toml:"body"`
}

// Catalog содержимое азкаров после намаза: круг коротких текстов
// для каждого намаза, затем общий круг длинных текстов.
type Catalog struct {
	Short  map[model.PrayerKey][]Text
	Long   []Text
	Repeat map[model.PrayerKey]int
}

// Rotation тексты для одного намаза.
type Rotation struct {
	Short  []Text
	Long   []Text
	Repeat int
}

// Len число текстов в обоих кругах.
func (r Rotation) Len() int {
	return len(r.Short) + len(r.Long)
}

// For возвращает круг для p. У намазов без своих коротких текстов их нет.
func (c *Catalog) For(p model.PrayerKey) Rotation {
	repeat := 1
	if n, ok := c.Repeat[p]; ok && n > 0 {
		repeat = n
	}
	return Rotation{Short: c.Short[p], Long: c.Long, Repeat: repeat}
}

var (
	istighfar = Text{
		Title: "الاستغفار",
		Body:  "أستغفر الله، أستغفر الله، أستغفر الله\nاللهم أنت السلام ومنك السلام، تباركت يا ذا الجلال والإكرام",
	}
	tasbih = Text{
		Title: "التسبيح",
		Body:  "سبحان الله (33)\nالحمد لله (33)\nالله أكبر (33)",
	}
	tahlil = Text{
		Title: "التهليل",
		Body:  "لا إله إلا الله وحده لا شريك له، له الملك وله الحمد، وهو على كل شيء قدير",
	}
	ayatAlKursi = Text{
		Title: "آية الكرسي",
		Body: "اللَّهُ لَا إِلَٰهَ إِلَّا هُوَ الْحَيُّ الْقَيُّومُ ۚ لَا تَأْخُذُهُ سِنَةٌ وَلَا نَوْمٌ ۚ لَهُ مَا فِي السَّمَاوَاتِ وَمَا فِي الْأَرْضِ ۗ " +
			"مَنْ ذَا الَّذِي يَشْفَعُ عِنْدَهُ إِلَّا بِإِذْنِهِ ۚ يَعْلَمُ مَا بَيْنَ أَيْدِيهِمْ وَمَا خَلْفَهُمْ ۖ وَلَا يُحِيطُونَ بِشَيْءٍ مِنْ عِلْمِهِ إِلَّا بِمَا شَاءَ ۚ " +
			"وَسِعَ كُرْسِيُّهُ السَّمَاوَاتِ وَالْأَرْضَ ۖ وَلَا يَئُودُهُ حِفْظُهُمَا ۚ وَهُوَ الْعَلِيُّ الْعَظِيمُ",
	}

	ikhlas = Text{
		Title: "سورة الإخلاص",
		Body:  "قُلْ هُوَ اللَّهُ أَحَدٌ ۝ اللَّهُ الصَّمَدُ ۝ لَمْ يَلِدْ وَلَمْ يُولَدْ ۝ وَلَمْ يَكُنْ لَهُ كُفُوًا أَحَدٌ",
	}
	falaq = Text{
		Title: "سورة الفلق",
		Body: "قُلْ أَعُوذُ بِرَبِّ الْفَلَقِ ۝ مِنْ شَرِّ مَا خَلَقَ ۝ وَمِنْ شَرِّ غَاسِقٍ إِذَا وَقَبَ ۝ " +
			"وَمِنْ شَرِّ النَّفَّاثَاتِ فِي الْعُقَدِ ۝ وَمِنْ شَرِّ حَاسِدٍ إِذَا حَسَدَ",
	}
	nas = Text{
		Title: "سورة الناس",
		Body: "قُلْ أَعُوذُ بِرَبِّ النَّاسِ ۝ مَلِكِ النَّاسِ ۝ إِلَٰهِ النَّاسِ ۝ مِنْ شَرِّ الْوَسْوَاسِ الْخَنَّاسِ ۝ " +
			"الَّذِي يُوَسْوِسُ فِي صُدُورِ النَّاسِ ۝ مِنَ الْجِنَّةِ وَالنَّاسِ",
	}
)

// Default возвращает каталог экрана мечети.
func Default() *Catalog {
	short := make(map[model.PrayerKey][]Text, len(model.Prayers))
	for _, p := range model.Prayers {
		short[p] = []Text{istighfar, tasbih, tahlil, ayatAlKursi}
	}
	return &Catalog{
		Short: short,
		Long:  []Text{ikhlas, falaq, nas},
		Repeat: map[model.PrayerKey]int{
			model.PrayerFajr:    3,
			model.PrayerMaghrib: 3,
		},
	}
}
