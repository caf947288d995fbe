package mysql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zaliv/internal/model"
)

func userRoleModel() *model.Model {
	return &model.Model{
		Entities: []model.Entity{
			{Name: "User", Properties: []model.Property{
				{Name: "id", Type: "BIGINT", Constraint: model.PK()},
				{Name: "login", Type: "VARCHAR(64)"},
				{Name: "role_id", Type: "BIGINT", Constraint: model.FK("Role", "id")},
			}},
			{Name: "Role", Properties: []model.Property{
				{Name: "id", Type: "BIGINT", Constraint: model.PK()},
				{Name: "title", Type: "VARCHAR(64)"},
			}},
		},
		Relationships: []model.Relationship{
			{Left: "User", Right: "Role", Table: "user_roles", LeftColumn: "user_id", RightColumn: "role_id"},
		},
	}
}

func TestCompileStatementCount(t *testing.T) {
	m := userRoleModel()
	stmts, err := Compile(m, "appdb", CompileOptions{})
	require.NoError(t, err)
	// 2 + 2E + 2R
	assert.Len(t, stmts, 2+2*len(m.Entities)+2*len(m.Relationships))
}

func TestCompileHeader(t *testing.T) {
	stmts, err := Compile(userRoleModel(), "appdb", CompileOptions{})
	require.NoError(t, err)
	assert.Equal(t, "CREATE DATABASE IF NOT EXISTS `appdb`;", stmts[0])
	assert.Equal(t, "USE `appdb`;", stmts[1])
}

func TestCompileDeterministic(t *testing.T) {
	m := userRoleModel()
	a, err := Compile(m, "appdb", CompileOptions{})
	require.NoError(t, err)
	b, err := Compile(m, "appdb", CompileOptions{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCompileEntityTable(t *testing.T) {
	stmts, err := Compile(userRoleModel(), "appdb", CompileOptions{})
	require.NoError(t, err)

	assert.Equal(t, "DROP TABLE IF EXISTS `user`;", stmts[2])
	assert.Equal(t, "CREATE TABLE `user` (\n"+
		"  `id` BIGINT AUTO_INCREMENT PRIMARY KEY,\n"+
		"  `login` VARCHAR(64),\n"+
		"  `role_id` BIGINT,\n"+
		"  FOREIGN KEY (`role_id`) REFERENCES `role`(`id`)\n"+
		");", stmts[3])
}

func TestCompilePrimaryKeyRenderedOnce(t *testing.T) {
	stmts, err := Compile(userRoleModel(), "appdb", CompileOptions{})
	require.NoError(t, err)
	for _, s := range stmts {
		if !strings.HasPrefix(s, "CREATE TABLE ") {
			continue
		}
		if strings.Contains(s, "`user_roles`") {
			continue // составной ключ junction-таблицы
		}
		assert.Equal(t, 1, strings.Count(s, "AUTO_INCREMENT PRIMARY KEY"), "table: %s", s)
	}
}

func TestCompileForeignKeyCompleteness(t *testing.T) {
	m := userRoleModel()
	stmts, err := Compile(m, "appdb", CompileOptions{})
	require.NoError(t, err)
	// у user один FK, у role ни одного
	assert.Equal(t, 1, strings.Count(stmts[3], "FOREIGN KEY"))
	assert.Equal(t, 0, strings.Count(stmts[5], "FOREIGN KEY"))
}

func TestCompileCaseNormalization(t *testing.T) {
	m := &model.Model{Entities: []model.Entity{
		{Name: "ThreatActor", Properties: []model.Property{
			{Name: "id", Type: "BIGINT", Constraint: model.PK()},
		}},
		{Name: "Campaign", Properties: []model.Property{
			{Name: "id", Type: "BIGINT", Constraint: model.PK()},
			{Name: "actor_id", Type: "BIGINT", Constraint: model.FK("ThreatActor", "id")},
		}},
	}}
	require.NoError(t, m.Validate())

	stmts, err := Compile(m, "intel", CompileOptions{})
	require.NoError(t, err)
	joined := strings.Join(stmts, "\n")
	assert.Contains(t, joined, "DROP TABLE IF EXISTS `threatactor`;")
	assert.Contains(t, joined, "CREATE TABLE `threatactor` (")
	assert.Contains(t, joined, "REFERENCES `threatactor`(`id`)")
	assert.NotContains(t, joined, "ThreatActor")
}

func TestCompileJunctionTableShape(t *testing.T) {
	stmts, err := Compile(userRoleModel(), "appdb", CompileOptions{})
	require.NoError(t, err)

	assert.Equal(t, "DROP TABLE IF EXISTS `user_roles`;", stmts[6])
	assert.Equal(t, "CREATE TABLE `user_roles` (\n"+
		"  `user_id` BIGINT NOT NULL,\n"+
		"  `role_id` BIGINT NOT NULL,\n"+
		"  PRIMARY KEY (`user_id`, `role_id`),\n"+
		"  FOREIGN KEY (`user_id`) REFERENCES `user`(`id`),\n"+
		"  FOREIGN KEY (`role_id`) REFERENCES `role`(`id`)\n"+
		");", stmts[7])
}

func TestCompileDropPrecedesEveryCreate(t *testing.T) {
	stmts, err := Compile(userRoleModel(), "appdb", CompileOptions{})
	require.NoError(t, err)
	for i, s := range stmts {
		if strings.HasPrefix(s, "CREATE TABLE ") {
			table := s[len("CREATE TABLE "):strings.Index(s, " (")]
			require.Greater(t, i, 0)
			assert.Equal(t, "DROP TABLE IF EXISTS "+table+";", stmts[i-1])
		}
	}
}

func TestCompileNoPrimaryKey(t *testing.T) {
	m := &model.Model{Entities: []model.Entity{
		{Name: "Note", Properties: []model.Property{{Name: "body", Type: "TEXT"}}},
	}}
	stmts, err := Compile(m, "appdb", CompileOptions{})
	require.ErrorIs(t, err, ErrSchema)
	// всё-или-ничего: ни одного оператора
	assert.Nil(t, stmts)
}

func TestCompileTwoPrimaryKeys(t *testing.T) {
	m := &model.Model{Entities: []model.Entity{
		{Name: "Note", Properties: []model.Property{
			{Name: "id", Type: "BIGINT", Constraint: model.PK()},
			{Name: "uid", Type: "BIGINT", Constraint: model.PK()},
		}},
	}}
	stmts, err := Compile(m, "appdb", CompileOptions{})
	require.ErrorIs(t, err, ErrSchema)
	assert.Nil(t, stmts)
}

func TestCompileEmptyDatabaseName(t *testing.T) {
	_, err := Compile(userRoleModel(), "  ", CompileOptions{})
	require.ErrorIs(t, err, ErrSchema)
}

func TestCompileTopoOrder(t *testing.T) {
	// User объявлен раньше Role, но ссылается на неё
	stmts, err := Compile(userRoleModel(), "appdb", CompileOptions{TopoOrder: true})
	require.NoError(t, err)
	joined := strings.Join(stmts, "\n")
	assert.Less(t,
		strings.Index(joined, "CREATE TABLE `role`"),
		strings.Index(joined, "CREATE TABLE `user`"))
	// junction всё равно в хвосте
	assert.True(t, strings.HasPrefix(stmts[7], "CREATE TABLE `user_roles`"))
}

func TestCompileTopoOrderCycle(t *testing.T) {
	m := &model.Model{Entities: []model.Entity{
		{Name: "A", Properties: []model.Property{
			{Name: "id", Type: "BIGINT", Constraint: model.PK()},
			{Name: "b_id", Type: "BIGINT", Constraint: model.FK("B", "id")},
		}},
		{Name: "B", Properties: []model.Property{
			{Name: "id", Type: "BIGINT", Constraint: model.PK()},
			{Name: "a_id", Type: "BIGINT", Constraint: model.FK("A", "id")},
		}},
	}}
	stmts, err := Compile(m, "appdb", CompileOptions{TopoOrder: true})
	require.ErrorIs(t, err, model.ErrConfig)
	assert.Nil(t, stmts)
}

func TestScript(t *testing.T) {
	s := Script([]string{"USE `a`;", "DROP TABLE IF EXISTS `t`;"})
	assert.Equal(t, "SET FOREIGN_KEY_CHECKS=0;\nUSE `a`;\nDROP TABLE IF EXISTS `t`;\nSET FOREIGN_KEY_CHECKS=1;\n", s)
}

// Повторный прогон скрипта по живой базе дропает таблицы, на которые
// ещё смотрят чужие FK (InnoDB даёт ошибку 3730), — поэтому все
// операторы обязаны идти между выключением и включением проверки.
func TestScriptDisablesForeignKeyChecks(t *testing.T) {
	m := userRoleModel()
	stmts, err := Compile(m, "appdb", CompileOptions{})
	require.NoError(t, err)

	s := Script(stmts)
	require.True(t, strings.HasPrefix(s, "SET FOREIGN_KEY_CHECKS=0;\n"))
	require.True(t, strings.HasSuffix(s, "SET FOREIGN_KEY_CHECKS=1;\n"))

	off := strings.Index(s, "SET FOREIGN_KEY_CHECKS=0;")
	on := strings.Index(s, "SET FOREIGN_KEY_CHECKS=1;")
	for _, stmt := range stmts {
		i := strings.Index(s, stmt)
		require.Greater(t, i, off, "statement before checks are disabled: %s", stmt)
		require.Less(t, i, on, "statement after checks are re-enabled: %s", stmt)
	}
}
