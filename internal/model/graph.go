package model

import (
	"fmt"
	"strings"
)

// DependencyOrder возвращает сущности в порядке зависимостей FK:
// сначала те, на кого ссылаются, потом ссылающиеся. Нужен движкам,
// которые проверяют существование целевой таблицы уже на CREATE TABLE
// (MySQL/InnoDB). Алгоритм Кана; независимые сущности сохраняют
// порядок объявления. Цикл — ErrConfig.
func (m *Model) DependencyOrder() ([]Entity, error) {
	pos := make(map[string]int, len(m.Entities))
	for i := range m.Entities {
		pos[strings.ToLower(m.Entities[i].Name)] = i
	}

	// indeg[i] — сколько целей FK сущности i ещё не выданы;
	// dependents[j] — кто ссылается на j
	indeg := make([]int, len(m.Entities))
	dependents := make([][]int, len(m.Entities))
	for i := range m.Entities {
		for _, p := range m.Entities[i].Properties {
			if p.Constraint.Kind != ForeignKey {
				continue
			}
			j, ok := pos[strings.ToLower(p.Constraint.Entity)]
			if !ok || j == i {
				// неизвестные цели ловит Validate; self-ref MySQL позволяет
				continue
			}
			indeg[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var queue []int
	for i := range m.Entities {
		if indeg[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]Entity, 0, len(m.Entities))
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		order = append(order, m.Entities[i])
		for _, d := range dependents[i] {
			indeg[d]--
			if indeg[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) < len(m.Entities) {
		var cyclic []string
		for i := range m.Entities {
			if indeg[i] > 0 {
				cyclic = append(cyclic, m.Entities[i].Name)
			}
		}
		return nil, fmt.Errorf("%w: circular foreign key dependency among entities: %v", ErrConfig, cyclic)
	}
	return order, nil
}
