package nrdb_test

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpl-au/nrdb"
)

func Example() {
	db := nrdb.New(nrdb.Config{})
	users := db.InitTable("users")

	users.Insert(nrdb.Record{"name": "ann", "age": "34"})
	users.Insert(nrdb.Record{"name": "bo", "age": 17})
	users.Insert(nrdb.Record{"name": "cy", "age": 52})

	q := nrdb.NewQuery("users")
	adults, _ := q.Field("age").Ge(18).And(q.Field("name").Ne("cy"))

	seq, err := db.Query(adults).All(nil)
	if err != nil {
		fmt.Println(err)
		return
	}
	for r := range seq {
		fmt.Println(r["name"], r["age"])
	}
	// Output:
	// ann 34
}

func ExampleTable_Upsert() {
	db := nrdb.New(nrdb.Config{})
	t := db.InitTable("stock")

	t.Upsert(nrdb.Record{"id": 7, "sku": "A1", "qty": "3"})
	t.Upsert(nrdb.Record{"id": 7, "qty": "5", "sku": nil})

	r, _ := t.Get(7)
	fmt.Println(r["qty"], r["sku"], t.Len())
	// Output:
	// 5 <nil> 1
}

func ExampleMaterialize() {
	db := nrdb.New(nrdb.Config{})
	t := db.InitTable("t")
	t.Insert(nrdb.Record{"n": 1})
	t.Insert(nrdb.Record{"n": 2})

	for row := range nrdb.Materialize(t.Rows(), nrdb.AsRow) {
		row.Set("double", row.Attr("n").(int)*2)
	}
	r, _ := t.Get(2)
	fmt.Println(r["double"])
	// Output:
	// 4
}

func ExampleLoad() {
	dir, _ := os.MkdirTemp("", "nrdb-example")
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "db.json")

	db := nrdb.New(nrdb.Config{})
	db.InitTable("notes").Insert(nrdb.Record{"text": "hello"})
	if err := db.Serialize(path, nrdb.SaveOptions{Pretty: true}); err != nil {
		fmt.Println(err)
		return
	}

	loaded, err := nrdb.Load(path, nrdb.Config{})
	if err != nil {
		fmt.Println(err)
		return
	}
	notes, _ := loaded.Table("notes")
	fmt.Println(loaded.Names(), notes)
	// Output:
	// [notes] <nrdb.Table:notes> 1 rows
}
