package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document — полный контент сайта: дерево секций верхнего уровня
// (header, home, ranking, projects и т.д.). Значения живут в JSON-домене:
// map[string]any, []any, string, float64, bool, nil.
type Document = map[string]any

// TopKey возвращает ключ верхнего уровня из точечного пути.
func TopKey(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}

// ValidatePath проверяет путь против схемы документа: ключ верхнего уровня
// должен быть известен (точное совпадение или префикс projects_/projectsDraft_).
// Строковые пути приходят снаружи, доверять им нельзя.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("пустой путь")
	}
	for _, seg := range strings.Split(path, ".") {
		if seg == "" {
			return fmt.Errorf("путь %q содержит пустой сегмент", path)
		}
	}
	top := TopKey(path)
	if !KnownTopKey(top) {
		return fmt.Errorf("неизвестный ключ верхнего уровня %q", top)
	}
	return nil
}

// Clone — глубокая копия значения в JSON-домене.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	default:
		return t
	}
}

// Normalize приводит произвольное Go-значение (типизированные модели,
// []models.Article и т.п.) к JSON-домену через round-trip. Примитивы и уже
// нормализованные значения проходят без сериализации.
func Normalize(v any) any {
	switch v.(type) {
	case nil, string, bool, float64:
		return v
	case int:
		return float64(v.(int))
	case int64:
		return float64(v.(int64))
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// SetPath возвращает копию документа с установленным листом по пути.
// Промежуточные объекты создаются по мере спуска, исходный документ не трогаем.
func SetPath(doc Document, path string, value any) Document {
	out, _ := Clone(any(doc)).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	segs := strings.Split(path, ".")
	cur := out
	for i := 0; i < len(segs)-1; i++ {
		next, ok := cur[segs[i]].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[segs[i]] = next
		}
		cur = next
	}
	cur[segs[len(segs)-1]] = Normalize(value)
	return out
}

// GetPath достаёт значение по точечному пути; ok=false, если путь не дошёл.
func GetPath(doc Document, path string) (any, bool) {
	var cur any = map[string]any(doc)
	for _, seg := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// DeepEqual — структурное сравнение в JSON-домене. Используется для
// подавления эхо-записей: снапшот, равный последнему известному, игнорируем.
func DeepEqual(a, b any) bool {
	switch at := a.(type) {
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for k, av := range at {
			bv, ok := bt[k]
			if !ok || !DeepEqual(av, bv) {
				return false
			}
		}
		return true
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !DeepEqual(at[i], bt[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Merge накладывает снапшот на локальный документ: скаляры и массивы
// верхнего уровня заменяются целиком, объекты — поверхностное слияние
// (поля снапшота поверх локальных, локальные подполя без удалённой пары
// сохраняются). Возвращает новый документ.
func Merge(local Document, snapshot Document) Document {
	out, _ := Clone(any(local)).(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	for k, sv := range snapshot {
		lo, hasLocal := out[k].(map[string]any)
		so, isObj := sv.(map[string]any)
		if isObj && hasLocal {
			merged := make(map[string]any, len(lo)+len(so))
			for f, v := range lo {
				merged[f] = v
			}
			for f, v := range so {
				merged[f] = Clone(v)
			}
			out[k] = merged
			continue
		}
		out[k] = Clone(sv)
	}
	return out
}

// IsEmptyList — true для пустого (или отсутствующего) списка.
// Нужен сторожу «пустой список поверх заполненного».
func IsEmptyList(v any) bool {
	l, ok := v.([]any)
	return ok && len(l) == 0
}

// IsNonEmptyList — true для непустого списка.
func IsNonEmptyList(v any) bool {
	l, ok := v.([]any)
	return ok && len(l) > 0
}
