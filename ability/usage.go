package ability

import "math"

const (
	ammoUninitialized = math.MinInt
	neverUsed         = -999.0
)

// Usage is the mutable cooldown and ammo state of one Definition. It is
// shared by every runtime and coordinator created from that definition.
type Usage struct {
	LastUseAt   float64
	AmmoCurrent int
}

func newUsage() *Usage {
	return &Usage{LastUseAt: neverUsed, AmmoCurrent: ammoUninitialized}
}

// Registry owns Usage records keyed by definition identity.
type Registry struct {
	usage map[Definition]*Usage
}

func NewRegistry() *Registry {
	return &Registry{usage: make(map[Definition]*Usage)}
}

// Usage returns the shared record for def, creating it on first access.
func (r *Registry) Usage(def Definition) *Usage {
	if r.usage == nil {
		r.usage = make(map[Definition]*Usage)
	}
	u, ok := r.usage[def]
	if !ok {
		u = newUsage()
		r.usage[def] = u
	}
	return u
}

func (r *Registry) ensureAmmo(def Definition, u *Usage) {
	if limit := def.Settings().AmmoMax; limit >= 0 && u.AmmoCurrent == ammoUninitialized {
		u.AmmoCurrent = limit
	}
}

// IsReady reports whether def has ammo left and is off cooldown at now.
func (r *Registry) IsReady(def Definition, now float64) bool {
	if def == nil {
		return false
	}
	s := def.Settings()
	u := r.Usage(def)
	if s.FiniteAmmo() {
		r.ensureAmmo(def, u)
		if u.AmmoCurrent <= 0 {
			return false
		}
	}
	if s.Cooldown > 0 && now < u.LastUseAt+s.Cooldown {
		return false
	}
	return true
}

// MarkUsed stamps the use time and spends one ammo.
func (r *Registry) MarkUsed(def Definition, now float64) {
	if def == nil {
		return
	}
	u := r.Usage(def)
	u.LastUseAt = now
	if def.Settings().FiniteAmmo() {
		r.ensureAmmo(def, u)
		if u.AmmoCurrent > 0 {
			u.AmmoCurrent--
		}
	}
}

// Refill restores finite ammo to its maximum.
func (r *Registry) Refill(def Definition) {
	if def == nil || !def.Settings().FiniteAmmo() {
		return
	}
	r.Usage(def).AmmoCurrent = def.Settings().AmmoMax
}

func (r *Registry) ResetCooldown(def Definition) {
	if def == nil {
		return
	}
	r.Usage(def).LastUseAt = neverUsed
}

// Ammo returns the remaining ammo, or -1 for infinite.
func (r *Registry) Ammo(def Definition) int {
	if def == nil || !def.Settings().FiniteAmmo() {
		return -1
	}
	u := r.Usage(def)
	r.ensureAmmo(def, u)
	return u.AmmoCurrent
}
