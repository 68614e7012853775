package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CatalogTables holds a small, internally consistent catalog export.
//
// Expected figures for reports over it:
//   - sets from 1950 on: 1978 -> 2, 1979 -> 2, 1980 -> 3, 1984 -> 1 (375-1 is from 1949)
//   - unique parts per theme: Space 4, Town 2, Castle 1
//   - growth: Space 1980 +2, Town 1978 +2, Castle 1949 +1, Space 1979 +1,
//     Castle 1984 +0, Town 1979 -1
var CatalogTables = map[string]string{
	"sets": `set_num,name,year,theme_id,num_parts
6000-1,Police Station,1978,1,200
6001-1,Fire Station,1978,1,150
6002-1,Gas Station,1979,1,100
6800-1,Rocket,1979,2,50
6801-1,Moon Base,1980,2,300
6802-1,Shuttle,1980,2,80
6803-1,Rover,1980,2,40
375-1,Castle,1949,3,700
6080-1,King's Castle,1984,3,600
`,
	"themes": `id,name,parent_id
1,Town,
2,Space,
3,Castle,
`,
	"inventories": `id,version,set_num
1,1,6000-1
2,1,6001-1
3,1,6800-1
4,1,6801-1
5,1,6080-1
`,
	"inventory_parts": `inventory_id,part_num,color_id,quantity,is_spare
1,3001,4,10,f
1,3002,4,5,f
2,3001,1,8,f
3,3001,1,2,f
3,3003,15,1,f
4,3004,15,4,f
4,3005,15,4,f
4,3003,15,2,f
5,3001,7,20,f
99,3009,0,1,f
`,
	"inventory_sets": `inventory_id,set_num,quantity
5,6000-1,1
`,
	"parts": `part_num,name,part_cat_id
3001,Brick 2 x 4,11
3002,Brick 2 x 3,11
3003,Brick 2 x 2,11
3004,Brick 1 x 2,11
3005,Brick 1 x 1,11
3009,Brick 1 x 6,11
`,
	"part_categories": `id,name
11,Bricks
`,
	"colors": `id,name,rgb,is_trans
0,Black,05131D,f
1,Blue,0055BF,f
4,Red,C91A09,f
7,Light Gray,9BA19D,f
15,White,FFFFFF,f
`,
}

// CatalogManifest chains the catalog tables the way the export's foreign
// keys do. The last row names a table that is never loaded.
const CatalogManifest = `table_name,column_name,referenced_table,referenced_column
sets,theme_id,themes,id
inventories,set_num,sets,set_num
inventory_parts,inventory_id,inventories,id
inventory_parts,color_id,colors,id
inventory_parts,part_num,parts,part_num
parts,part_cat_id,part_categories,id
inventory_sets,inventory_id,inventories,id
inventory_minifigs,fig_num,minifigs,fig_num
`

// WideCatalog returns CatalogTables with the set, theme and inventory tables
// replaced by n themes. Theme i owns one set from 2000 whose inventory holds
// one part of its own, so every theme scores 1 unique part and +1 growth.
func WideCatalog(n int) map[string]string {
	tables := make(map[string]string, len(CatalogTables))
	for name, body := range CatalogTables {
		tables[name] = body
	}

	var sets, themes, inventories, parts strings.Builder
	sets.WriteString("set_num,name,year,theme_id,num_parts\n")
	themes.WriteString("id,name,parent_id\n")
	inventories.WriteString("id,version,set_num\n")
	parts.WriteString("inventory_id,part_num,color_id,quantity,is_spare\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sets, "w%d-1,Set %d,2000,%d,10\n", i, i, i)
		fmt.Fprintf(&themes, "%d,Theme %02d,\n", i, i)
		fmt.Fprintf(&inventories, "%d,1,w%d-1\n", i, i)
		fmt.Fprintf(&parts, "%d,w%d,0,1,f\n", i, i)
	}
	tables["sets"] = sets.String()
	tables["themes"] = themes.String()
	tables["inventories"] = inventories.String()
	tables["inventory_parts"] = parts.String()
	return tables
}

// WriteCatalog writes every catalog table to dataDir/<name>.csv
func WriteCatalog(t *testing.T, dataDir string) {
	t.Helper()
	WriteTables(t, dataDir, CatalogTables)
}

// WriteTables writes each table body to dataDir/<name>.csv
func WriteTables(t *testing.T, dataDir string, tables map[string]string) {
	t.Helper()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dataDir, err)
	}
	for name, body := range tables {
		WriteFile(t, filepath.Join(dataDir, name+".csv"), body)
	}
}

// WriteFile writes body to path, creating parent directories
func WriteFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(body, "\n")), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
