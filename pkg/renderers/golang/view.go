package golang

import "github.com/goliatone/go-buildergen/pkg/model"

// builderView flattens a plan into the shape the template walks. Fields are
// split by kind so Build can run every required check before assembling the
// value.
type builderView struct {
	Schema      string `json:"schema"`
	RecordType  string `json:"record_type"`
	BuilderType string `json:"builder_type"`
	BuilderRef  string `json:"builder_ref"`
	TypeParams  string `json:"type_params"`
	Constructor string `json:"constructor"`
	BuildMethod string `json:"build_method"`
	Receiver    string `json:"receiver"`
	Out         string `json:"out"`
	Value       string `json:"value"`

	Fields   []fieldView `json:"fields"`
	Required []fieldView `json:"required"`
	Optional []fieldView `json:"optional"`
	Repeated []fieldView `json:"repeated"`
}

type fieldView struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Storage     string `json:"storage"`
	StorageType string `json:"storage_type"`
	Setter      string `json:"setter"`
	Accumulator string `json:"accumulator"`
}

func newBuilderView(b model.Builder) builderView {
	view := builderView{
		Schema:      b.Schema,
		RecordType:  b.RecordType(),
		BuilderType: b.BuilderType,
		BuilderRef:  b.BuilderRef(),
		TypeParams:  b.TypeParams,
		Constructor: b.Constructor,
		BuildMethod: b.BuildMethod,
		Receiver:    b.Receiver,
		Out:         b.Out,
		Value:       b.Value,
		Fields:      make([]fieldView, 0, len(b.Fields)),
	}
	for _, f := range b.Fields {
		fv := fieldView{
			Name:        f.Name,
			Type:        f.Classification.Type,
			Storage:     f.Storage,
			StorageType: f.StorageType,
			Setter:      f.Setter,
			Accumulator: f.Accumulator,
		}
		view.Fields = append(view.Fields, fv)
		switch f.Classification.Kind {
		case model.KindRequired:
			view.Required = append(view.Required, fv)
		case model.KindOptional:
			view.Optional = append(view.Optional, fv)
		case model.KindRepeated:
			view.Repeated = append(view.Repeated, fv)
		}
	}
	return view
}
