package metadata

/** Definition for the entry point of a job. */
type JobStart func(params interface{}) (interface{}, error)

/** Definition for completion of a job. */
type JobOnComplete func(result interface{})

/** Definition for failure of a job. */
type JobOnFailure func(params interface{}, err error)

/**
 * @brief Describes a job to be run by the job system.
 */
type JobTask struct {
	/** @brief Invoked when the job starts. Required. */
	OnStart JobStart
	/** @brief Invoked with the start result when the job succeeds. Optional. */
	OnComplete JobOnComplete
	/** @brief Invoked with the input params when the job fails. Optional. */
	OnFailure JobOnFailure
	/** @brief Invoked after success or failure. Optional. */
	OnCompletionCallback func()
	/** @brief Data passed to OnStart. */
	InputParams interface{}
}
