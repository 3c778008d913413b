package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleYAML = `
clinic:
  name: "Дента-Люкс"
  address: "ул. Ленина, 10"
  phone: "+7 (900) 123-45-67"
  hours: "Пн-Сб 08:00-20:00, Вс 09:00-15:00"
  description: "Современная стоматология."
category_order:
  - "Терапия"
  - "Хирургия"
services:
  "Терапия":
    - name: "Консультация"
      price: 500
      duration: "30 мин"
    - name: "Лечение кариеса"
      price: 3500
      duration: "60 мин"
      photo: "https://example.com/caries.jpg"
  "Хирургия":
    - name: "Удаление зуба"
      price: 2500
      duration: "40 мин"
doctors:
  - name: "Иванова А.П."
    role: "Терапевт"
    experience: "Стаж 12 лет"
promos:
  - title: "Скидка 20%"
    description: "На первичную консультацию"
`

func TestLoadOrderAndLookup(t *testing.T) {
	cat, err := Load(writeCatalog(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cats := cat.Categories()
	if len(cats) != 2 || cats[0] != "Терапия" || cats[1] != "Хирургия" {
		t.Fatalf("category order = %v", cats)
	}

	items, ok := cat.Items("Терапия")
	if !ok || len(items) != 2 {
		t.Fatalf("items lookup: ok=%v n=%d", ok, len(items))
	}
	if items[1].Name != "Лечение кариеса" || items[1].Price != 3500 {
		t.Fatalf("unexpected item: %+v", items[1])
	}
	if items[1].Photo == "" {
		t.Fatal("photo URL should load")
	}

	if _, ok := cat.Items("Ортодонтия"); ok {
		t.Fatal("unknown category must not resolve")
	}

	if cat.Clinic().Phone != "+7 (900) 123-45-67" {
		t.Fatalf("clinic info = %+v", cat.Clinic())
	}
}

func TestFlattenServicesFollowsCategoryOrder(t *testing.T) {
	cat, err := Load(writeCatalog(t, sampleYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{
		"Консультация (500 руб.)",
		"Лечение кариеса (3500 руб.)",
		"Удаление зуба (2500 руб.)",
	}
	got := cat.FlattenServices()
	if len(got) != len(want) {
		t.Fatalf("flatten length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flatten[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadRejectsUnlistedCategory(t *testing.T) {
	const broken = `
clinic:
  name: "Клиника"
category_order:
  - "A"
services:
  "A": []
  "B":
    - name: "X"
      price: 1
`
	_, err := Load(writeCatalog(t, broken))
	if err == nil || !strings.Contains(err.Error(), "category_order") {
		t.Fatalf("expected category_order error, got %v", err)
	}
}

func TestLoadRejectsMissingClinicName(t *testing.T) {
	const broken = `
category_order:
  - "A"
services:
  "A": []
`
	_, err := Load(writeCatalog(t, broken))
	if err == nil || !strings.Contains(err.Error(), "clinic.name") {
		t.Fatalf("expected clinic.name error, got %v", err)
	}
}
