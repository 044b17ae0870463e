// Package prompt builds the instruction document sent to the model for a
// policy-analysis topic.
package prompt

import "fmt"

// Domains lists the official sources the model is restricted to, in the
// order they appear in the template.
var Domains = []string{
	"gov.vn",
	"dangcongsan.vn",
	"quochoi.vn",
	"baochinhphu.vn",
	"tapchicongsan.org.vn",
}

// Sections lists the markdown headings the model must produce, in order.
var Sections = []string{
	"## I. Hiện trạng và Vấn đề pháp lý",
	"## II. Kiến nghị Hoàn thiện thể chế",
	"## III. Nguồn tham khảo",
}

// template has a single %s verb for the topic.
const template = `
Bạn là chuyên gia phân tích chính sách và pháp luật Việt Nam.
Chủ đề cần nghiên cứu: "%s"

YÊU CẦU BẮT BUỘC:
1. Sử dụng Google Search tích hợp để tìm dữ liệu MỚI NHẤT.
2. Chỉ chắt lọc thông tin từ các nguồn chính thống:
    - site:gov.vn
    - site:dangcongsan.vn
    - site:quochoi.vn
    - site:baochinhphu.vn
    - site:tapchicongsan.org.vn

HÃY TRẢ VỀ KẾT QUẢ THEO ĐỊNH DẠNG MARKDOWN:
## I. Hiện trạng và Vấn đề pháp lý
- Tổng quan tình hình thực tế (nêu số liệu mới nhất nếu có).
- Chỉ rõ các điểm nghẽn về cơ chế, chính sách, quy định pháp luật đang tồn tại.

## II. Kiến nghị Hoàn thiện thể chế
- Đề xuất 3-5 giải pháp cụ thể (sửa đổi luật nào, ban hành chính sách gì).

## III. Nguồn tham khảo
- Liệt kê các đường link chính thống đã sử dụng.

QUY ĐỊNH NGHIÊM NGẶT VỀ OUTPUT (QUAN TRỌNG):
- KHÔNG ĐƯỢC có lời chào, lời dẫn nhập hay kết luận xã giao (như "Tuyệt vời", "Dưới đây là kết quả...").
- Trả về kết quả TRỰC TIẾP bắt đầu ngay bằng tiêu đề hoặc mục "I. Hiện trạng...".
- Chỉ xuất ra nội dung phân tích.
- Ở các đường link chính thống phải ghi mô tả trang web
`

// Build returns the prompt for topic. The topic is embedded verbatim.
func Build(topic string) string {
	return fmt.Sprintf(template, topic)
}
