package sr

import "github.com/mrsinham/srforge/internal/metadata"

// BuildObservationContext reads the observerContext record: an ObserverType of
// PERSON or DEVICE and the matching PersonObserverName or DeviceObserverUID.
func BuildObservationContext(record metadata.Node) (ObservationContext, error) {
	typ, err := requiredString(record, "ObserverType")
	if err != nil {
		return ObservationContext{}, err
	}
	ot, err := ParseObserverType(typ)
	if err != nil {
		return ObservationContext{}, err
	}

	switch ot {
	case ObserverPerson:
		name, err := requiredString(record, "PersonObserverName")
		if err != nil {
			return ObservationContext{}, err
		}
		return ObservationContext{Type: ObserverPerson, PersonName: name}, nil
	default:
		uid, err := requiredUID(record, "DeviceObserverUID")
		if err != nil {
			return ObservationContext{}, err
		}
		return ObservationContext{Type: ObserverDevice, DeviceUID: uid}, nil
	}
}
