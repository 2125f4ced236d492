package metrics

const (
	SimComputesH        = "The total number of simulation compute runs"
	SimComputesN        = "fuzzycontrol_sim_computes"
	SimCacheHitsH       = "The total number of compute runs served from the result cache"
	SimCacheHitsN       = "fuzzycontrol_sim_cache_hits"
	SimMissingInputsH   = "The total number of compute runs rejected for missing inputs"
	SimMissingInputsN   = "fuzzycontrol_sim_missing_inputs"
	SimDefuzzFailuresH  = "The total number of outputs that could not be defuzzified"
	SimDefuzzFailuresN  = "fuzzycontrol_sim_defuzz_failures"
	SimComputeDurationH = "The duration of simulation compute runs in seconds"
	SimComputeDurationN = "fuzzycontrol_sim_compute_duration_seconds"
	SimRulesFiredH      = "The total number of rules fired with non-zero strength"
	SimRulesFiredN      = "fuzzycontrol_sim_rules_fired"

	BatchRunsH  = "The total number of batch evaluations"
	BatchRunsN  = "fuzzycontrol_batch_runs"
	BatchItemsH = "The total number of input sets evaluated in batches"
	BatchItemsN = "fuzzycontrol_batch_items"
)
