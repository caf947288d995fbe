package dsl

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"zaliv/internal/model"
)

var (
	entityRe   = regexp.MustCompile(`^entity\s+(\w+):\s*$`)
	relationRe = regexp.MustCompile(`^relation\s+(\w+)\s+(\w+):\s*$`)
	fieldRe    = regexp.MustCompile(`^([\w]+):\s*([^\s#]+)(.*)$`)
	refRe      = regexp.MustCompile(`^ref\[(\w+)(?:\.(\w+))?\]$`)
)

// parser держит состояние построчного разбора одного файла
type parser struct {
	path     string
	out      *model.Model
	entity   *model.Entity       // текущий блок entity
	relation *model.Relationship // текущий блок relation
	relLine  int                 // строка заголовка relation (для ошибок)
}

func (p *parser) errf(line int, format string, args ...any) error {
	return fmt.Errorf("%s:%d: "+format, append([]any{p.path, line}, args...)...)
}

// закрыть текущий блок: entity просто дописывается, relation проверяем на полноту
func (p *parser) closeBlock() error {
	if p.entity != nil {
		p.out.Entities = append(p.out.Entities, *p.entity)
		p.entity = nil
	}
	if p.relation != nil {
		r := p.relation
		if r.Table == "" || r.LeftColumn == "" || r.RightColumn == "" {
			return p.errf(p.relLine, "relation %s %s: table/left/right are all required", r.Left, r.Right)
		}
		p.out.Relationships = append(p.out.Relationships, *r)
		p.relation = nil
	}
	return nil
}

func (p *parser) line(ln int, line string) error {
	if m := entityRe.FindStringSubmatch(line); m != nil {
		if err := p.closeBlock(); err != nil {
			return err
		}
		p.entity = &model.Entity{Name: m[1]}
		return nil
	}
	if m := relationRe.FindStringSubmatch(line); m != nil {
		if err := p.closeBlock(); err != nil {
			return err
		}
		p.relation = &model.Relationship{Left: m[1], Right: m[2]}
		p.relLine = ln
		return nil
	}

	m := fieldRe.FindStringSubmatch(line)
	if m == nil {
		return p.errf(ln, "unrecognized line %q", line)
	}
	name, value, tail := m[1], m[2], strings.TrimSpace(m[3])

	// срезать хвостовой комментарий
	if i := strings.IndexByte(tail, '#'); i >= 0 {
		tail = strings.TrimSpace(tail[:i])
	}

	switch {
	case p.relation != nil:
		if tail != "" {
			return p.errf(ln, "relation key %s takes a single value", name)
		}
		switch strings.ToLower(name) {
		case "table":
			p.relation.Table = value
		case "left":
			p.relation.LeftColumn = value
		case "right":
			p.relation.RightColumn = value
		default:
			return p.errf(ln, "unknown relation key %q (expected table/left/right)", name)
		}
		return nil

	case p.entity != nil:
		prop := model.Property{
			Name: name,
			// модель хранит готовый SQL-токен; дальше он не трактуется
			Type: strings.ToUpper(value),
		}
		for _, tok := range strings.Fields(tail) {
			if strings.EqualFold(tok, "pk") {
				prop.Constraint = model.PK()
				continue
			}
			if rm := refRe.FindStringSubmatch(tok); rm != nil {
				col := rm[2]
				if col == "" {
					col = "id" // по конвенции первичный ключ целевой сущности
				}
				prop.Constraint = model.FK(rm[1], col)
				continue
			}
			return p.errf(ln, "unknown option %q for property %s", tok, name)
		}
		p.entity.Properties = append(p.entity.Properties, prop)
		return nil

	default:
		return p.errf(ln, "property %q outside of an entity block", name)
	}
}

// Load читает один *.dsl файл и возвращает модель из его объявлений.
// Здесь только форма; семантику (дубликаты, висячие ссылки) проверяет
// model.Validate.
func Load(path string) (*model.Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	p := &parser{path: path, out: &model.Model{}}
	scanner := bufio.NewScanner(file)
	ln := 0
	for scanner.Scan() {
		ln++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.line(ln, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := p.closeBlock(); err != nil {
		return nil, err
	}
	return p.out, nil
}

// LoadAll обходит root и склеивает объявления из всех *.dsl файлов в
// одну модель. WalkDir идёт в лексическом порядке, так что порядок
// сущностей стабилен от прогона к прогону.
func LoadAll(root string) (*model.Model, error) {
	out := &model.Model{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".dsl") {
			return nil
		}
		part, err := Load(path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		out.Entities = append(out.Entities, part.Entities...)
		out.Relationships = append(out.Relationships, part.Relationships...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out.Entities) == 0 {
		return nil, fmt.Errorf("no entities found under %s", root)
	}
	return out, nil
}
