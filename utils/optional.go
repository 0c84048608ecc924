package utils

// Optional biểu diễn 3 trạng thái của một trường PATCH:
// không gửi (Absent) | gửi rỗng để xoá (Null) | gửi giá trị mới (Set).
// Trạng thái được dựng tường minh từ form tại controller, service chỉ đọc.
type Optional[T any] struct {
	present bool
	null    bool
	value   T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{present: true, value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{present: true, null: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Absent() bool { return !o.present }
func (o Optional[T]) IsNull() bool { return o.present && o.null }

// Get trả về (giá trị, true) chỉ khi trường được gửi kèm giá trị.
func (o Optional[T]) Get() (T, bool) {
	if !o.present || o.null {
		var zero T
		return zero, false
	}
	return o.value, true
}

// FormField dựng Optional[string] từ một trường multipart form:
// vắng mặt -> Absent, chuỗi rỗng -> Null, còn lại -> Set.
func FormField(value string, present bool) Optional[string] {
	if !present {
		return None[string]()
	}
	if value == "" {
		return Null[string]()
	}
	return Some(value)
}
