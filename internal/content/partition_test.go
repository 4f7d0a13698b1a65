package content

import "testing"

func TestPartitionRouting(t *testing.T) {
	cases := map[string]Partition{
		"savedSheets":            PartitionSheets,
		"folders":                PartitionSheets,
		"techSheet":              PartitionSheets,
		"projects":               PartitionProjects,
		"projectsDraft":          PartitionProjects,
		"subTabsConfig":          PartitionProjects,
		"projects_performance":   PartitionProjects,
		"projectsDraft_offroad":  PartitionProjects,
		"header":                 PartitionMain,
		"home":                   PartitionMain,
		"ranking":                PartitionMain,
		"users":                  PartitionMain,
		"styles":                 PartitionMain,
		"какой-то-неизвестный":   PartitionMain,
	}
	for key, want := range cases {
		if got := PartitionFor(key); got != want {
			t.Errorf("ключ %q: ожидалась партиция %s, получили %s", key, want, got)
		}
	}
}

func TestImmediateKey(t *testing.T) {
	for _, key := range []string{"projects", "projectsDraft", "projects_drift", "projectsDraft_drift"} {
		if !ImmediateKey(key) {
			t.Errorf("ключ %q должен писаться немедленно", key)
		}
	}
	for _, key := range []string{"subTabsConfig", "home", "ranking", "savedSheets"} {
		if ImmediateKey(key) {
			t.Errorf("ключ %q не должен миновать дебаунс", key)
		}
	}
}

func TestOwnedKeys(t *testing.T) {
	doc := Document{
		"home":        map[string]any{},
		"projects":    []any{},
		"savedSheets": []any{},
	}

	sheets := OwnedKeys(doc, PartitionSheets)
	if len(sheets) != 1 {
		t.Fatalf("ожидался один ключ sheets, получили %d", len(sheets))
	}
	if _, ok := sheets["savedSheets"]; !ok {
		t.Fatal("savedSheets не попал в свою партицию")
	}
}

func TestDefaultsCoverEveryKnownKey(t *testing.T) {
	def := Defaults()

	static := []string{
		"header", "tabs", "home", "services", "specialistBrands", "partners",
		"brands", "faq", "ranking", "shop", "contact", "footer",
		"projects", "projectsDraft", "subTabsConfig",
		"techSheet", "savedSheets", "folders",
		"users", "categoryTags", "specPresets", "social", "styles",
	}
	for _, key := range static {
		if _, ok := def[key]; !ok {
			t.Errorf("в дефолтах нет ключа %q", key)
		}
		if !KnownTopKey(key) {
			t.Errorf("ключ %q не числится в схеме", key)
		}
	}
}

func TestDefaultsForSplitsWithoutOverlap(t *testing.T) {
	def := Defaults()

	total := 0
	for _, p := range Partitions() {
		total += len(DefaultsFor(p))
	}
	if total != len(def) {
		t.Fatalf("партиции делят дефолты с пересечением или потерей: %d != %d", total, len(def))
	}
}
