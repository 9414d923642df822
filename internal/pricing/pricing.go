package pricing

// Kind discriminates the active pricing variant. Exactly one variant is
// active per auction instance.
type Kind int

const (
	None Kind = iota
	Fixed
	Dutch
	English
)

func (k Kind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Dutch:
		return "dutch"
	case English:
		return "english"
	default:
		return "none"
	}
}

// Policy is a tagged union: only the fields of the active Kind are
// meaningful. Construct through FixedPolicy, DutchPolicy or EnglishPolicy.
type Policy struct {
	Kind             Kind
	Price            int64  // Fixed
	InitialPrice     int64  // Dutch
	DecreasePerEpoch int64  // Dutch
	MinOpeningBid    int64  // English
	StartEpoch       uint64 // Dutch, English
	DurationEpochs   uint64 // Dutch, English
}

func FixedPolicy(price int64) Policy {
	return Policy{Kind: Fixed, Price: price}
}

func DutchPolicy(initial, decrease int64, start, duration uint64) Policy {
	return Policy{
		Kind:             Dutch,
		InitialPrice:     initial,
		DecreasePerEpoch: decrease,
		StartEpoch:       start,
		DurationEpochs:   duration,
	}
}

func EnglishPolicy(minOpeningBid int64, start, duration uint64) Policy {
	return Policy{
		Kind:           English,
		MinOpeningBid:  minOpeningBid,
		StartEpoch:     start,
		DurationEpochs: duration,
	}
}

// CurrentPrice returns the payment required for an immediate purchase at the
// given epoch. ok is false when the variant has no purchase path (None and
// English). Pure: no side effects, deterministic for identical inputs.
func (p Policy) CurrentPrice(now uint64) (price int64, ok bool) {
	switch p.Kind {
	case Fixed:
		return p.Price, true
	case Dutch:
		if p.DecreasePerEpoch <= 0 {
			return p.InitialPrice, true
		}
		if p.InitialPrice <= 0 {
			return 0, true
		}
		elapsed := saturatingSub(now, p.StartEpoch)
		if elapsed > p.DurationEpochs {
			elapsed = p.DurationEpochs
		}
		// Past this many epochs the price has decayed to zero; the bound
		// also keeps the multiplication below within int64.
		if limit := uint64(p.InitialPrice / p.DecreasePerEpoch); elapsed > limit {
			return 0, true
		}
		return p.InitialPrice - p.DecreasePerEpoch*int64(elapsed), true
	default:
		return 0, false
	}
}

// EndEpoch is the nominal end of a timed variant. Zero for Fixed and None.
func (p Policy) EndEpoch() uint64 {
	switch p.Kind {
	case Dutch, English:
		return p.StartEpoch + p.DurationEpochs
	default:
		return 0
	}
}

// ClosingPrice is the policy's valuation at its nominal end epoch, used as
// the fixed fallback price for items left unsold when an auction closes.
func (p Policy) ClosingPrice() int64 {
	switch p.Kind {
	case Fixed:
		return p.Price
	case Dutch:
		price, _ := p.CurrentPrice(p.EndEpoch())
		return price
	case English:
		return p.MinOpeningBid
	default:
		return 0
	}
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}
