package util

import (
	"fmt"
	"strconv"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// MustElement creates a DICOM element and panics when the value does not fit
// the tag's VR. Callers only pass values whose VR is fixed at compile time.
func MustElement(t tag.Tag, value any) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("element %v: %v", t, err))
	}
	return elem
}

// DecimalString formats f as a DS value with six significant digits.
func DecimalString(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// IntegerString formats i as an IS value.
func IntegerString(i int) string {
	return strconv.Itoa(i)
}
