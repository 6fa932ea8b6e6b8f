package syncequiv

// Capabilities declares which synchronization direction is guaranteed for
// every item of an equivalence class relative to its core.
//
// Capabilities belong to the class type, not to a class value: CoreEquiv
// only ever consults the zero value of its C type parameter. Implementations
// should be empty structs whose methods return constants.
type Capabilities interface {
	// Synchronizable reports that the core can be synchronized to the
	// time of any item in the class.
	Synchronizable() bool

	// Cosynchronizable reports that any item in the class can be
	// synchronized to the time of the core.
	Cosynchronizable() bool
}

// Cosync declares a cosynchronizable class.
type Cosync struct{}

func (Cosync) Synchronizable() bool   { return false }
func (Cosync) Cosynchronizable() bool { return true }

// Sync declares a synchronizable class.
type Sync struct{}

func (Sync) Synchronizable() bool   { return true }
func (Sync) Cosynchronizable() bool { return false }

// Bisync declares a class that is both synchronizable and cosynchronizable.
// The cosynchronizable direction is used.
type Bisync struct{}

func (Bisync) Synchronizable() bool   { return true }
func (Bisync) Cosynchronizable() bool { return true }

// Unsync declares neither direction. Such a class cannot be checked and
// Check always fails.
type Unsync struct{}

func (Unsync) Synchronizable() bool   { return false }
func (Unsync) Cosynchronizable() bool { return false }

// Direction is the comparison direction a core-equivalence check takes.
type Direction uint8

const (
	// DirectionNone means no direction is declared.
	DirectionNone Direction = iota

	// DirectionCosync brings each item to the core's time.
	DirectionCosync

	// DirectionSync brings the core to each item's time.
	DirectionSync
)

// String returns the short name of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionCosync:
		return "cosync"
	case DirectionSync:
		return "sync"
	default:
		return "none"
	}
}

// DirectionOf returns the direction implied by C.
// Cosynchronizable takes precedence when both are declared.
func DirectionOf[C Capabilities]() Direction {
	var c C
	switch {
	case c.Cosynchronizable():
		return DirectionCosync
	case c.Synchronizable():
		return DirectionSync
	default:
		return DirectionNone
	}
}
