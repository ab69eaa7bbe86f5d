package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/memorial/internal/models"
)

func sampleHeroes() []models.Hero {
	return []models.Hero{
		{ID: 1, Name: "Петр Иванов", Unit: "5-я армия", Hometown: "с. Покровское", Rank: "Сержант", Region: models.DefaultRegion, DeathYear: models.Year(1943)},
		{ID: 2, Name: "Иван Петров", Unit: "28-я армия", Hometown: "с. Петровка", Rank: "Рядовой", Region: models.DefaultRegion},
		{ID: 3, Name: "Алексей Смирнов", Unit: "4-й кавкорпус", Hometown: "с. Троицкое", Rank: "Лейтенант", Region: "Матвеево-Курганский район", DeathYear: models.Year(1942)},
		{ID: 4, Name: "Николай Кузнецов", Unit: "5-я армия", Hometown: "х. Николаевка", Rank: "Сержант", Region: models.DefaultRegion},
	}
}

func ids(heroes []models.Hero) []int64 {
	out := make([]int64, 0, len(heroes))
	for _, h := range heroes {
		out = append(out, h.ID)
	}
	return out
}

func TestFilterHeroes_EmptyQueryReturnsAllInOrder(t *testing.T) {
	heroes := sampleHeroes()
	got := FilterHeroes(heroes, "", HeroFacets{})
	assert.Equal(t, heroes, got)
}

func TestFilterHeroes_SubstringAcrossFields(t *testing.T) {
	heroes := []models.Hero{
		{ID: 1, Name: "Петр Иванов", Unit: "5-я армия", Hometown: "с. Покровское"},
		{ID: 2, Name: "Иван Петров", Unit: "28-я армия", Hometown: "с. Петровка"},
		{ID: 3, Name: "Сидор Сидоров", Unit: "1-я армия", Hometown: "х. Ясный"},
	}

	for _, q := range []string{"Петр", "петр", "ПЕТР"} {
		t.Run(q, func(t *testing.T) {
			assert.Equal(t, []int64{1, 2}, ids(FilterHeroes(heroes, q, HeroFacets{})))
		})
	}
}

func TestFilterHeroes_MatchesHometownOnly(t *testing.T) {
	heroes := []models.Hero{{ID: 7, Name: "Кто-то", Unit: "полк", Hometown: "с. Петровка"}}
	assert.Equal(t, []int64{7}, ids(FilterHeroes(heroes, "петровка", HeroFacets{})))
}

func TestFilterHeroes_NoTrimming(t *testing.T) {
	heroes := sampleHeroes()
	assert.Empty(t, FilterHeroes(heroes, " Петр ", HeroFacets{}))
}

func TestFilterHeroes_Facets(t *testing.T) {
	heroes := sampleHeroes()

	tests := []struct {
		name   string
		query  string
		facets HeroFacets
		want   []int64
	}{
		{"rank only", "", HeroFacets{Rank: "Сержант"}, []int64{1, 4}},
		{"region only", "", HeroFacets{Region: "Матвеево-Курганский район"}, []int64{3}},
		{"rank and region", "", HeroFacets{Rank: "Сержант", Region: models.DefaultRegion}, []int64{1, 4}},
		{"rank and query", "5-я", HeroFacets{Rank: "Сержант"}, []int64{1, 4}},
		{"rank mismatch", "Петр", HeroFacets{Rank: "Лейтенант"}, []int64{}},
		{"facets are exact", "", HeroFacets{Rank: "сержант"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterHeroes(heroes, tt.query, tt.facets)))
		})
	}
}

func TestFilterHeroes_Idempotent(t *testing.T) {
	heroes := sampleHeroes()
	cases := []struct {
		query  string
		facets HeroFacets
	}{
		{"", HeroFacets{}},
		{"армия", HeroFacets{}},
		{"ов", HeroFacets{Rank: "Сержант"}},
		{"с.", HeroFacets{Region: models.DefaultRegion}},
	}
	for _, c := range cases {
		once := FilterHeroes(heroes, c.query, c.facets)
		twice := FilterHeroes(once, c.query, c.facets)
		assert.Equal(t, once, twice, "query %q", c.query)
	}
}

func TestFilterHeroes_DoesNotModifyInput(t *testing.T) {
	heroes := sampleHeroes()
	before := ids(heroes)
	_ = FilterHeroes(heroes, "армия", HeroFacets{Rank: "Сержант"})
	assert.Equal(t, before, ids(heroes))
}

func TestFilterMonuments(t *testing.T) {
	ms := []models.Monument{
		{ID: 1, Name: "Обелиск славы", Type: "обелиск", Settlement: "с. Покровское"},
		{ID: 2, Name: "Братская могила", Type: "братская могила", Settlement: "с. Троицкое"},
		{ID: 3, Name: "Мемориал", Type: "мемориал", Settlement: "с. Покровское"},
	}

	got := FilterMonuments(ms, "покровское", MonumentFacets{})
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)

	got = FilterMonuments(ms, "", MonumentFacets{Type: "братская могила"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Equal(t, ms, FilterMonuments(ms, "", MonumentFacets{}))
}

func TestFacetOptions(t *testing.T) {
	heroes := sampleHeroes()
	heroes = append(heroes, models.Hero{ID: 5})

	assert.Equal(t, []string{"Сержант", "Рядовой", "Лейтенант"}, Ranks(heroes))
	assert.Equal(t, []string{models.DefaultRegion, "Матвеево-Курганский район"}, Regions(heroes))
	assert.Equal(t, []string{"обелиск"}, MonumentTypes([]models.Monument{{Type: "обелиск"}, {Type: "обелиск"}, {}}))
	assert.Nil(t, Ranks(nil))
}
