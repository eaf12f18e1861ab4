// Package factory instantiates pluggable components, such as run stores and
// metrics sinks, from configuration. A component is selected by a type name
// and configured by a raw map that its factory decodes into a typed struct.
//
//	stores := factory.NewRegistry[store.RunStore]()
//	_ = stores.Register("jsonl", func(conf map[string]any) (store.RunStore, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return store.NewJSONLStore(c.Path)
//	})
//	s, err := stores.Create(factory.ModuleConfig{Type: "jsonl", Conf: map[string]any{"path": "runs.jsonl"}})
package factory
