// ScentMatch - Fragrance Personalization Scoring and Caching Engine
// Copyright 2026 ScentMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/scentmatch/scentmatch

package taste

// DefaultQuestionBank returns the built-in scent quiz.
//
// Deltas are tuned so that a consistent set of answers pushes the
// matching dimensions roughly 30-45 points above neutral while pulling
// opposing families slightly below it.
func DefaultQuestionBank() QuestionBank {
	return QuestionBank{
		"scent_memory": {
			"ocean_morning":   {Fresh: 15, Fruity: 3, Woody: -3},
			"grandma_garden":  {Floral: 15, Fresh: 3},
			"spice_market":    {Oriental: 15, Woody: 4, Fresh: -3},
			"forest_walk":     {Woody: 15, Fresh: 4, Gourmand: -3},
			"summer_orchard":  {Fruity: 15, Fresh: 4},
			"bakery_sunday":   {Gourmand: 15, Oriental: 3, Fresh: -3},
		},
		"ideal_evening": {
			"rooftop_cocktails": {Fresh: 8, Fruity: 8},
			"candlelit_dinner":  {Oriental: 10, Gourmand: 5},
			"garden_party":      {Floral: 10, Fresh: 5},
			"fireside_whiskey":  {Woody: 10, Oriental: 5},
			"dessert_tasting":   {Gourmand: 10, Fruity: 5},
			"beach_bonfire":     {Fresh: 8, Woody: 8},
		},
		"season": {
			"spring": {Floral: 10, Fresh: 6},
			"summer": {Fresh: 10, Fruity: 6},
			"autumn": {Woody: 10, Oriental: 6},
			"winter": {Oriental: 10, Gourmand: 6},
		},
		"style": {
			"crisp_minimal":   {Fresh: 10, Floral: -2},
			"romantic_soft":   {Floral: 10, Fruity: 3},
			"elegant":         {Floral: 10, Oriental: 8, Fresh: -5, Woody: -3},
			"bold_statement":  {Oriental: 10, Woody: 3},
			"earthy_natural":  {Woody: 10, Fresh: 3},
			"playful_sweet":   {Fruity: 8, Gourmand: 6},
			"cozy_indulgent":  {Gourmand: 10, Oriental: 3},
		},
		"occasions": {
			"office":         {Fresh: 10, Woody: 4, Oriental: -3},
			"evening":        {Oriental: 12, Floral: 5, Fresh: -4},
			"date_night":     {Floral: 8, Oriental: 6},
			"outdoors":       {Woody: 10, Fresh: 6, Gourmand: -3},
			"weekend_brunch": {Fruity: 8, Fresh: 5},
			"cocktail_party": {Oriental: 8, Fruity: 4},
		},
		"preferences": {
			"fresh":    {Fresh: 15, Gourmand: -4},
			"floral":   {Floral: 15, Fruity: 3, Woody: -4},
			"oriental": {Oriental: 15, Fresh: -4},
			"woody":    {Woody: 15, Gourmand: -3},
			"fruity":   {Fruity: 15, Woody: -3},
			"gourmand": {Gourmand: 15, Fresh: -4},
		},
		"coffee_order": {
			"iced_americano": {Fresh: 6, Gourmand: -2},
			"lavender_latte": {Floral: 6, Gourmand: 2},
			"chai_spice":     {Oriental: 6, Gourmand: 2},
			"long_black":     {Woody: 6},
			"fruit_smoothie": {Fruity: 6, Fresh: 2},
			"caramel_mocha":  {Gourmand: 6, Fruity: 2},
		},
		"getaway": {
			"nordic_coast":  {Fresh: 8, Woody: 4},
			"provence":      {Floral: 8, Fresh: 4},
			"marrakech":     {Oriental: 8, Gourmand: 4},
			"redwood_cabin": {Woody: 8, Fresh: 4},
			"tuscan_vines":  {Fruity: 8, Floral: 4},
			"paris_patiss":  {Gourmand: 8, Floral: 4},
		},
	}
}
