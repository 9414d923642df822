package auction

import "auctionhouse/internal/models"

// inventory tracks per-item availability and display metadata. Records are
// never deleted; availability flips to false exactly once. This is
// bookkeeping only: the item vault withdrawal is the real double-sale
// guard.
type inventory struct {
	infos map[string]models.ItemInfo
}

func newInventory() *inventory {
	return &inventory{infos: make(map[string]models.ItemInfo)}
}

func (inv *inventory) mint(id string, info models.ItemInfo) error {
	if _, ok := inv.infos[id]; ok {
		// The registry guarantees unique IDs; defensive check.
		return ErrDuplicateItem
	}
	info.Available = true
	inv.infos[id] = info
	return nil
}

func (inv *inventory) markUnavailable(id string) error {
	info, ok := inv.infos[id]
	if !ok || !info.Available {
		return ErrUnknownItem
	}
	info.Available = false
	inv.infos[id] = info
	return nil
}

func (inv *inventory) isAvailable(id string) bool {
	info, ok := inv.infos[id]
	return ok && info.Available
}

func (inv *inventory) snapshot() map[string]models.ItemInfo {
	out := make(map[string]models.ItemInfo, len(inv.infos))
	for id, info := range inv.infos {
		out[id] = info
	}
	return out
}
