package workflow

// CatalogConfig is the bulk form of the engine configuration: the rows a
// seeding collaborator registers at deployment or environment bootstrap.
// Order matters only between sections: states are registered before the
// transitions and mappings that reference them.
type CatalogConfig struct {
	States      []StateDefinition
	Transitions []Transition
	Mappings    []StateMapping
}

// BuildCatalog validates a whole configuration and returns the catalog
// holding it. The first configuration error aborts the build; a
// partially-defined rule set is never returned.
func BuildCatalog(cfg CatalogConfig) (*Catalog, error) {
	catalog := NewCatalog()

	for _, def := range cfg.States {
		if err := catalog.DefineState(def); err != nil {
			return nil, err
		}
	}
	for _, t := range cfg.Transitions {
		if err := catalog.DefineTransition(t); err != nil {
			return nil, err
		}
	}
	for _, m := range cfg.Mappings {
		if err := catalog.DefineMapping(m); err != nil {
			return nil, err
		}
	}

	return catalog, nil
}
