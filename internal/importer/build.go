package importer

import (
	"fmt"

	"github.com/mind-engage/mindengage-quizsheets/internal/config"
	"github.com/mind-engage/mindengage-quizsheets/internal/layout"
	"github.com/mind-engage/mindengage-quizsheets/internal/quiz"
	"github.com/mind-engage/mindengage-quizsheets/internal/sheet"
	"github.com/mind-engage/mindengage-quizsheets/internal/storage"
	"github.com/mind-engage/mindengage-quizsheets/internal/validation"
)

// FromConfig wires a Coordinator from the import settings.
func FromConfig(im config.Import, store quiz.Store, src storage.Source, opts ...Option) (*Coordinator, error) {
	tmpl, err := layout.ParseTemplateType(im.Template)
	if err != nil {
		return nil, fmt.Errorf("import template: %w", err)
	}
	x := sheet.NewExtractor(im.DisallowedChars)
	v := validation.New(validation.Rules{
		Tolerance:       im.WeightTolerance,
		ForbiddenTitles: im.ForbiddenTitles,
		RemovalMarkers:  im.RemovalMarkers,
	})
	proc := sheet.NewProcessor(x, v, sheet.Strategies(x, v, im.MinCellsMC, im.MinCellsTF))
	base := []Option{
		WithTemplate(tmpl),
		WithPool(PoolConfig{Core: im.PoolCore, Max: im.PoolMax, QueueCapacity: im.QueueCapacity}),
	}
	return NewCoordinator(store, src, proc, append(base, opts...)...), nil
}
