package service

import "github.com/StudyBeacon/physics-learn/internal/models"

// ImageBinding is the outcome of attaching an upload batch to questions.
type ImageBinding struct {
	Questions []models.Question
	General   []models.ImageAsset
}

// BindImages attaches each image of an upload batch to a question by position.
//
// The image at batch index i gets Order i and is bound to question
// min(i, len(questions)-1), so surplus images all land on the last question.
// Every image is also returned in General. With no questions only General is
// populated. The input slices are not modified.
func BindImages(questions []models.Question, batch []models.ImageAsset) ImageBinding {
	bound := make([]models.Question, len(questions))
	for i, q := range questions {
		q.Images = append([]models.ImageAsset{}, q.Images...)
		bound[i] = q
	}

	general := make([]models.ImageAsset, 0, len(batch))
	for i, img := range batch {
		img.Order = i
		general = append(general, img)
		if len(bound) == 0 {
			continue
		}
		target := i
		if last := len(bound) - 1; target > last {
			target = last
		}
		bound[target].Images = append(bound[target].Images, img)
	}

	return ImageBinding{Questions: bound, General: general}
}
