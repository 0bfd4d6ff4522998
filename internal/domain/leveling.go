package domain

import "math"

// MaxExperience acota el contador para que XPForLevel no desborde uint64.
const MaxExperience int64 = 1 << 60

// XPForLevel devuelve la experiencia acumulada necesaria para llegar a level
// (progresión MEE6: 5/6 · L · (2L² + 27L + 91)). Nivel 1 = 100, nivel 2 = 255.
func XPForLevel(level int64) int64 {
	if level <= 0 {
		return 0
	}
	l := uint64(level)
	// l·(2l²+27l+91) siempre es múltiplo de 6
	return int64(5 * (l * (2*l*l + 27*l + 91) / 6))
}

// LevelInfo es puro: todo sale de la experiencia, no hay estado escondido.
type LevelInfo struct {
	xp         int64
	level      int64
	percentage int
}

func NewLevelInfo(xp int64) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	if xp > MaxExperience {
		xp = MaxExperience
	}

	// estimación por raíz cúbica (el término cúbico domina) y ajuste fino
	lvl := int64(math.Cbrt(float64(xp) * 0.6))
	for lvl > 0 && XPForLevel(lvl) > xp {
		lvl--
	}
	for XPForLevel(lvl+1) <= xp {
		lvl++
	}

	cur := XPForLevel(lvl)
	next := XPForLevel(lvl + 1)
	pct := int((xp - cur) * 100 / (next - cur))

	return LevelInfo{xp: xp, level: lvl, percentage: pct}
}

func (li LevelInfo) XP() int64 { return li.xp }

func (li LevelInfo) Level() int64 { return li.level }

// Percentage: 0..99, vuelve a 0 al cruzar cada nivel.
func (li LevelInfo) Percentage() int { return li.percentage }

// NextLevel es el nivel al que se está avanzando.
func (li LevelInfo) NextLevel() int64 { return li.level + 1 }

// XPToNext es lo que falta para subir de nivel.
func (li LevelInfo) XPToNext() int64 { return XPForLevel(li.level+1) - li.xp }
