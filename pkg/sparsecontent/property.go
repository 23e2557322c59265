package sparsecontent

import "log/slog"

// PropertyValueHandler applies request properties to content entities and
// records the resulting modifications. One handler serves one request; the
// change log it accumulates is ordered and append-only.
type PropertyValueHandler struct {
	logger  *slog.Logger
	changes []Modification
}

// NewPropertyValueHandler creates a handler. A nil logger falls back to
// slog.Default().
func NewPropertyValueHandler(logger *slog.Logger) *PropertyValueHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PropertyValueHandler{logger: logger}
}

// SetProperty applies one request property to the entity.
//
// A nil value slice removes the property if it exists (Deleted record) and
// is a no-op otherwise. An empty slice, or a single empty string, clears the
// property to the stored empty value without removing it (Modified record).
// Anything else stores the raw values (Modified record). Every mutation that
// changes stored state appends exactly one record; no-ops append none.
func (h *PropertyValueHandler) SetProperty(entity ContentEntity, prop RequestProperty) error {
	if prop.TypeHint != "" {
		h.logIgnoredHint(prop)
	}

	values := prop.Values
	switch {
	case values == nil:
		if !entity.HasProperty(prop.Name) {
			return nil
		}
		if err := entity.RemoveProperty(prop.Name); err != nil {
			return err
		}
		h.changes = append(h.changes, OnDeleted(entity.Path()+"@"+prop.Name))

	case len(values) == 0 || (len(values) == 1 && values[0] == ""):
		// clear the existing value, do not remove the property
		if err := entity.SetProperty(prop.Name, ToStore("")); err != nil {
			return err
		}
		h.changes = append(h.changes, OnModified(prop.Path()))

	default:
		if err := entity.SetProperty(prop.Name, ToStoreValues(values)); err != nil {
			return err
		}
		h.changes = append(h.changes, OnModified(prop.Path()))
	}
	return nil
}

// Changes returns the modifications recorded so far, in application order.
func (h *PropertyValueHandler) Changes() []Modification {
	return h.changes
}

// logIgnoredHint emits the diagnostic for a type-hinted write. Property
// types are not persisted in the sparse store, so a generic read has no way
// to reverse a typed conversion; the hint must not change what is stored.
// Values that do not even parse under the hinted kind get a warning so
// client code still relying on hints can be found.
func (h *PropertyValueHandler) logIgnoredHint(prop RequestProperty) {
	h.logger.Info("ignoring type hint on sparse property",
		"path", prop.Path(), "type", prop.TypeHint)

	kind := KindFromHint(prop.TypeHint)
	if kind == KindUndefined || kind == KindString || prop.Values == nil {
		return
	}
	if _, err := FromRequest(kind, prop.Values); err != nil {
		h.logger.Warn("property values do not parse under hinted type",
			"path", prop.Path(), "type", prop.TypeHint, "err", err)
	}
}
