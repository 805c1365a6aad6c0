package ddl

import (
	"fmt"
	"strings"

	gddl "statsetl/internal/ddl"
)

// BuildCreateTableSQL returns a T-SQL script that creates a table matching
// the provided definition if it does not already exist:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (
//	    [col1] TYPE,
//	    [col2] TYPE
//	  );
//	END;
//
// T-SQL has no CREATE TABLE IF NOT EXISTS.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	cols, err := gddl.ColumnList(t, QuoteIdent)
	if err != nil {
		return "", fmt.Errorf("mssql %w", err)
	}
	fqn := QuoteFQN(t.FQN)
	return fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		strings.ReplaceAll(fqn, "'", "''"),
		fqn,
		strings.Join(cols, ",\n    "),
	), nil
}

// BuildDropTableSQL returns DROP TABLE IF EXISTS (SQL Server 2016+).
func BuildDropTableSQL(fqn string) string {
	return gddl.BuildDropTableSQL(fqn, QuoteIdent)
}

// QuoteIdent quotes a single identifier segment using bracket syntax,
// escaping closing brackets:
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes a possibly schema-qualified table name:
//
//	"dbo.hitting_hr" -> [dbo].[hitting_hr]
func QuoteFQN(fqn string) string { return gddl.QuoteFQN(fqn, QuoteIdent) }
