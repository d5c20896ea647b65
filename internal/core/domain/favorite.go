package domain

// NormalizeFavorite prepares a gallery item for insertion into the favorites
// store: meta defaults to an empty mapping, tags to an empty list, and the
// transient prompt_saved UI flag is dropped. The input item is not modified.
func NormalizeFavorite(it Item) Item {
	rec := make(Item, len(it))
	for k, v := range it {
		rec[k] = v
	}

	meta, ok := rec["meta"].(map[string]any)
	if !ok {
		meta = map[string]any{}
	} else {
		copied := make(map[string]any, len(meta))
		for k, v := range meta {
			copied[k] = v
		}
		meta = copied
	}
	delete(meta, "prompt_saved")
	rec["meta"] = meta

	if _, ok := rec["tags"].([]any); !ok {
		rec["tags"] = []any{}
	}
	return rec
}
