package core

import (
	"log/slog"

	"DnsBot/entity"
	"DnsBot/internal/lib/sl"
)

// Layouts describes every record type the registry can edit.
func (c *Core) Layouts() []entity.Layout {
	types := c.registry.Types()
	layouts := make([]entity.Layout, 0, len(types))
	for _, t := range types {
		names, _ := c.registry.Layout(t)
		defs, err := c.registry.FieldsForType(t)
		if err != nil {
			c.log.With(
				slog.String("type", t),
				sl.Err(err),
			).Warn("skipping broken layout")
			continue
		}
		layout := entity.Layout{Type: t, Fields: make([]entity.LayoutField, 0, len(defs))}
		for i, def := range defs {
			layout.Fields = append(layout.Fields, entity.LayoutField{
				Name:     names[i],
				Key:      def.Key,
				Label:    def.Label,
				Kind:     string(def.Kind),
				Required: def.Required,
				Rule:     def.Rule,
			})
		}
		layouts = append(layouts, layout)
	}
	return layouts
}
