package main

import (
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/gen"
	"gorm.io/gorm"
)

// Generates query builders for an existing tenant schema. Run manually
// after a migration changes table shapes.
func main() {
	g := gen.NewGenerator(gen.Config{
		OutPath:      "../../models",
		ModelPkgPath: "models",
		Mode:         gen.WithoutContext | gen.WithDefaultQuery | gen.WithQueryInterface,
	})

	g.WithDataTypeMap(map[string]func(gorm.ColumnType) (dataType string){
		"time": func(gorm.ColumnType) string {
			return "string"
		},
		"decimal": func(gorm.ColumnType) string {
			return "float64"
		},
	})

	gormdb, _ := gorm.Open(mysql.Open(os.Getenv("CREWTRACK_DSN")))
	g.UseDB(gormdb)

	g.GenerateAllTable()
	g.ApplyBasic()

	g.Execute()
}
