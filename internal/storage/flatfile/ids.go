package flatfile

// DefaultIDSeed — первый идентификатор пустой коллекции.
const DefaultIDSeed = 1

// NextID возвращает max(ids)+1, для пустой коллекции seed.
// Функция не синхронизирована: вызывающий держит блокировку коллекции
// от вычисления идентификатора до записи файла.
func NextID(ids []int, seed int) int {
	if len(ids) == 0 {
		return seed
	}
	maxID := ids[0]
	for _, id := range ids[1:] {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

func idsOf[T any](items []T, id func(T) int) []int {
	ids := make([]int, len(items))
	for i, item := range items {
		ids[i] = id(item)
	}
	return ids
}
