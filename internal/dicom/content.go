package dicom

import (
	"fmt"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/srforge/internal/sr/code"
	"github.com/mrsinham/srforge/internal/sr/tree"
	"github.com/mrsinham/srforge/internal/util"
)

// encodeContent returns the attributes of node id: its value, concept name,
// relationship and the ContentSequence of its attached children. The root has
// no relationship.
func encodeContent(t *tree.Tree, id tree.NodeID) ([]*dicom.Element, error) {
	item := t.Item(id)
	elems := []*dicom.Element{
		util.MustElement(tagValueType, []string{string(item.ValueType)}),
	}
	if id != t.Root() {
		elems = append(elems, util.MustElement(tagRelationshipType, []string{string(item.Relationship)}))
	}
	if !item.Concept.IsZero() {
		elems = append(elems, codeSequence(tagConceptNameCodeSequence, item.Concept))
	}

	value, err := valueElements(item)
	if err != nil {
		return nil, fmt.Errorf("node %d (%s): %w", id, item.ValueType, err)
	}
	elems = append(elems, value...)

	children := t.Children(id)
	if len(children) > 0 {
		items := make([][]*dicom.Element, 0, len(children))
		for _, c := range children {
			child, err := encodeContent(t, c)
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		seq, err := dicom.NewElement(tagContentSequence, items)
		if err != nil {
			return nil, fmt.Errorf("create content sequence: %w", err)
		}
		elems = append(elems, seq)
	}
	return sortElements(elems), nil
}

func valueElements(item tree.Item) ([]*dicom.Element, error) {
	switch item.ValueType {
	case tree.Container:
		elems := []*dicom.Element{util.MustElement(tagContinuityOfContent, []string{"SEPARATE"})}
		if item.TemplateID != "" {
			tmpl := [][]*dicom.Element{{
				util.MustElement(tagMappingResource, []string{"DCMR"}),
				util.MustElement(tagTemplateIdentifier, []string{item.TemplateID}),
			}}
			elems = append(elems, util.MustElement(tagContentTemplateSequence, tmpl))
		}
		return elems, nil
	case tree.Code:
		return []*dicom.Element{codeSequence(tagConceptCodeSequence, item.Code)}, nil
	case tree.Num:
		measured := sortElements([]*dicom.Element{
			codeSequence(tagMeasurementUnitsCodeSequence, item.Units),
			util.MustElement(tagNumericValue, []string{item.Numeric}),
		})
		return []*dicom.Element{util.MustElement(tagMeasuredValueSequence, [][]*dicom.Element{measured})}, nil
	case tree.Text:
		return []*dicom.Element{util.MustElement(tagTextValue, []string{item.Text})}, nil
	case tree.UIDRef:
		return []*dicom.Element{util.MustElement(tagUID, []string{item.Text})}, nil
	case tree.PName:
		return []*dicom.Element{util.MustElement(tagPersonName, []string{item.Text})}, nil
	case tree.Date:
		return []*dicom.Element{util.MustElement(tagDate, []string{item.Text})}, nil
	case tree.Image, tree.Composite:
		if item.Reference == nil {
			return nil, fmt.Errorf("reference item without a reference")
		}
		ref := []*dicom.Element{
			util.MustElement(tagReferencedSOPClassUID, []string{item.Reference.SOPClassUID}),
			util.MustElement(tagReferencedSOPInstanceUID, []string{item.Reference.SOPInstanceUID}),
		}
		if len(item.Reference.Segments) > 0 {
			ref = append(ref, util.MustElement(tagReferencedSegmentNumber, item.Reference.Segments))
		}
		return []*dicom.Element{util.MustElement(tagReferencedSOPSequence, [][]*dicom.Element{ref})}, nil
	default:
		return nil, fmt.Errorf("unsupported value type %q", item.ValueType)
	}
}

func codeSequence(t tag.Tag, c code.CodedEntry) *dicom.Element {
	return util.MustElement(t, [][]*dicom.Element{{
		util.MustElement(tagCodeValue, []string{c.CodeValue}),
		util.MustElement(tagCodingSchemeDesignator, []string{c.CodingScheme}),
		util.MustElement(tagCodeMeaning, []string{c.CodeMeaning}),
	}})
}
