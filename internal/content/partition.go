package content

import "strings"

// Partition — одна из трёх независимых единиц хранения.
// Каждый ключ верхнего уровня принадлежит ровно одной партиции;
// роутер спрашивают и при подписке, и при записи.
type Partition string

const (
	PartitionMain     Partition = "main"
	PartitionProjects Partition = "projects"
	PartitionSheets   Partition = "sheets"
)

// Partitions — все партиции в фиксированном порядке.
func Partitions() []Partition {
	return []Partition{PartitionMain, PartitionProjects, PartitionSheets}
}

var projectsKeys = map[string]struct{}{
	"projects":      {},
	"projectsDraft": {},
	"subTabsConfig": {},
}

var sheetsKeys = map[string]struct{}{
	"savedSheets": {},
	"folders":     {},
	"techSheet":   {},
}

var mainKeys = map[string]struct{}{
	"header":           {},
	"tabs":             {},
	"home":             {},
	"services":         {},
	"specialistBrands": {},
	"partners":         {},
	"brands":           {},
	"faq":              {},
	"ranking":          {},
	"shop":             {},
	"contact":          {},
	"footer":           {},
	"users":            {},
	"categoryTags":     {},
	"specPresets":      {},
	"social":           {},
	"styles":           {},
}

// PartitionFor возвращает партицию-владельца ключа верхнего уровня.
// Точная таблица плюс префиксное правило для статей по под-вкладкам
// (projects_<subtab> / projectsDraft_<subtab>).
func PartitionFor(topKey string) Partition {
	if _, ok := projectsKeys[topKey]; ok {
		return PartitionProjects
	}
	if strings.HasPrefix(topKey, "projects_") || strings.HasPrefix(topKey, "projectsDraft_") {
		return PartitionProjects
	}
	if _, ok := sheetsKeys[topKey]; ok {
		return PartitionSheets
	}
	return PartitionMain
}

// KnownTopKey — ключ есть в схеме документа (включая динамические
// projects_* / projectsDraft_*).
func KnownTopKey(topKey string) bool {
	if _, ok := mainKeys[topKey]; ok {
		return true
	}
	if _, ok := projectsKeys[topKey]; ok {
		return true
	}
	if _, ok := sheetsKeys[topKey]; ok {
		return true
	}
	return strings.HasPrefix(topKey, "projects_") || strings.HasPrefix(topKey, "projectsDraft_")
}

// OwnedKeys фильтрует документ до ключей, принадлежащих партиции.
// Снапшот партиции не должен затягивать чужие ключи в локальное состояние.
func OwnedKeys(doc Document, p Partition) Document {
	out := make(Document)
	for k, v := range doc {
		if PartitionFor(k) == p {
			out[k] = v
		}
	}
	return out
}

// ImmediateKey — ключи публикации статей пишутся немедленно, минуя дебаунс:
// сохранение черновика и публикацию нельзя потерять в гонке перезаписи.
// subTabsConfig сюда не входит — это обычная конфигурация.
func ImmediateKey(topKey string) bool {
	if topKey == "projects" || topKey == "projectsDraft" {
		return true
	}
	return strings.HasPrefix(topKey, "projects_") || strings.HasPrefix(topKey, "projectsDraft_")
}
