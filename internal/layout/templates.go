package layout

// Built-in templates. The 2024 sheet added a course column after the row number
// and shifted everything else right by one.
func init() {
	mustRegister(Layout{
		Template: V2023,
		Columns: map[Field]int{
			FieldRow:         0,
			FieldTitle:       1,
			FieldText:        2,
			FieldOption1:     3,
			FieldWeight1:     4,
			FieldOption2:     5,
			FieldWeight2:     6,
			FieldOption3:     7,
			FieldWeight3:     8,
			FieldOption4:     9,
			FieldWeight4:     10,
			FieldFeedback1:   11,
			FieldFeedback2:   12,
			FieldFeedback3:   13,
			FieldFeedback4:   14,
			FieldWeightTrue:  3,
			FieldWeightFalse: 4,
		},
	})
	mustRegister(Layout{
		Template: V2024,
		Columns: map[Field]int{
			FieldRow:         0,
			FieldCourse:      1,
			FieldTitle:       2,
			FieldText:        3,
			FieldOption1:     4,
			FieldWeight1:     5,
			FieldOption2:     6,
			FieldWeight2:     7,
			FieldOption3:     8,
			FieldWeight3:     9,
			FieldOption4:     10,
			FieldWeight4:     11,
			FieldFeedback1:   12,
			FieldFeedback2:   13,
			FieldFeedback3:   14,
			FieldFeedback4:   15,
			FieldWeightTrue:  4,
			FieldWeightFalse: 5,
		},
	})
}

func mustRegister(l Layout) {
	if err := Register(l); err != nil {
		panic(err)
	}
}
